package main

import (
	"errors"
	"net/http"
	"time"

	appmw "github.com/caijiayiLinda/online-shopping-mall/internal/middleware"
	"github.com/caijiayiLinda/online-shopping-mall/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// refreshWindow is how long after issuance an expired token may still
// be exchanged for a fresh one.
const refreshWindow = 7 * 24 * time.Hour

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func csrfTokenHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := appmw.GenerateCSRFToken()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create token"})
		}
		appmw.SetCSRFCookie(c, token)
		return c.JSON(http.StatusOK, echo.Map{"csrf_token": token})
	}
}

// checkAuthHandler is the session-introspection endpoint. It always
// answers 200; an unusable token reports authenticated=false rather
// than an error status.
func checkAuthHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(appmw.AuthCookieName)
		if err != nil {
			return c.JSON(http.StatusOK, echo.Map{"authenticated": false, "error": "no auth cookie found"})
		}

		claims, err := appmw.ParseToken(cookie.Value)
		if err != nil {
			return c.JSON(http.StatusOK, echo.Map{"authenticated": false, "error": "invalid or expired token"})
		}

		user, err := authSvc.CheckAuth(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusOK, echo.Map{"authenticated": false, "error": "user not found"})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"authenticated": true,
			"admin":         user.Admin,
			"userId":        user.UserID,
			"email":         user.Email,
		})
	}
}

func loginHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request format"})
		}

		user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			default:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}
		}

		token, err := appmw.GenerateToken(user.UserID, user.Email, user.Admin)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create token"})
		}
		csrfToken, err := appmw.GenerateCSRFToken()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create token"})
		}
		appmw.SetAuthCookies(c, token, csrfToken)

		return c.JSON(http.StatusOK, echo.Map{
			"message":    "login successful",
			"admin":      user.Admin,
			"email":      user.Email,
			"csrf_token": csrfToken,
		})
	}
}

func registerHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request format"})
		}

		_, err := authSvc.Register(c.Request().Context(), req.Email, req.Password, req.ConfirmPassword)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmailTaken):
				return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
			case errors.Is(err, services.ErrValidation):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
			}
		}

		return c.JSON(http.StatusCreated, echo.Map{"message": "registration successful"})
	}
}

// logoutHandler clears the session cookies. It succeeds even without
// a valid session so the client can always reset its local state.
func logoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		appmw.ClearAuthCookies(c)
		return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
	}
}

// refreshHandler exchanges an expiring or recently-expired token for a
// fresh one and rotates the CSRF token. Tokens issued longer than
// refreshWindow ago are rejected.
func refreshHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(appmw.AuthCookieName)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}

		claims, err := appmw.ParseExpiredToken(cookie.Value)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > refreshWindow {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token too old to refresh"})
		}

		user, err := authSvc.CheckAuth(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found"})
		}

		token, err := appmw.GenerateToken(user.UserID, user.Email, user.Admin)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create token"})
		}
		csrfToken, err := appmw.GenerateCSRFToken()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create token"})
		}
		appmw.SetAuthCookies(c, token, csrfToken)

		return c.JSON(http.StatusOK, echo.Map{
			"message":    "token refreshed",
			"csrf_token": csrfToken,
		})
	}
}

// changePasswordHandler rehashes the password and ends the session so
// the user logs in again with the new credentials.
func changePasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := appmw.GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}

		req := new(changePasswordRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request format"})
		}

		err := authSvc.ChangePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
			case errors.Is(err, services.ErrValidation):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update password"})
			}
		}

		appmw.ClearAuthCookies(c)
		return c.JSON(http.StatusOK, echo.Map{"message": "password changed successfully"})
	}
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService) {
	auth := g.Group("/auth")

	// throttle credential endpoints; exceeding the limit yields 429
	auth.Use(echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(10),
			Burst:     30,
			ExpiresIn: 3 * time.Minute,
		}),
	}))

	auth.GET("/csrf-token", csrfTokenHandler())
	auth.GET("/check", checkAuthHandler(authSvc))
	auth.POST("/login", loginHandler(authSvc), appmw.CSRF)
	auth.POST("/register", registerHandler(authSvc), appmw.CSRF)
	auth.POST("/logout", logoutHandler())
	auth.POST("/refresh", refreshHandler(authSvc))
	auth.POST("/change-password", changePasswordHandler(authSvc), appmw.AuthRequired, appmw.CSRF)
}
