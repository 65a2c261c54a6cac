package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	AuthCookieName = "auth_token"
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"

	// CookieExpiry is how long both the auth and CSRF cookies live.
	CookieExpiry = 72 * time.Hour
)

// Claims defines the JWT payload carried in the auth cookie.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-please-change"
	}
	jwtSecret = []byte(secret)
}

// SetSecret overrides the signing key loaded from the environment.
func SetSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

// GenerateToken creates a signed token for the given user details.
func GenerateToken(userID int64, email string, admin bool) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Admin:  admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(CookieExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "shopping-mall-api",
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(jwtSecret)
}

// ParseToken validates the token and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ParseExpiredToken parses a token accepting an expired signature, for
// the refresh flow. Everything except the expiry is still validated.
func ParseExpiredToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GenerateCSRFToken returns a cryptographically random URL-safe token.
func GenerateCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// SetAuthCookies writes the auth and CSRF cookies on the response.
func SetAuthCookies(c echo.Context, token, csrfToken string) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(CookieExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	SetCSRFCookie(c, csrfToken)
}

// SetCSRFCookie writes only the CSRF cookie.
func SetCSRFCookie(c echo.Context, csrfToken string) {
	c.SetCookie(&http.Cookie{
		Name:     CSRFCookieName,
		Value:    csrfToken,
		Path:     "/",
		MaxAge:   int(CookieExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookies expires both cookies.
func ClearAuthCookies(c echo.Context) {
	for _, name := range []string{AuthCookieName, CSRFCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// AuthRequired validates the auth cookie and attaches the claims to
// the request context.
func AuthRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(AuthCookieName)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		claims, err := ParseToken(cookie.Value)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}
		c.Set("auth_claims", claims)
		return next(c)
	}
}

// AdminOnly requires an authenticated admin. Must run after AuthRequired.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		if !claims.Admin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return next(c)
	}
}

// CSRF enforces the double-submit check: the X-CSRF-Token header must
// match the csrf_token cookie.
func CSRF(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(CSRFHeaderName)
		if header == "" {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "CSRF token missing"})
		}
		cookie, err := c.Cookie(CSRFCookieName)
		if err != nil || subtle.ConstantTimeCompare([]byte(header), []byte(cookie.Value)) != 1 {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid CSRF token"})
		}
		return next(c)
	}
}

// GetClaims extracts claims placed in the context by AuthRequired.
func GetClaims(c echo.Context) *Claims {
	v := c.Get("auth_claims")
	if v == nil {
		return nil
	}
	if cl, ok := v.(*Claims); ok {
		return cl
	}
	return nil
}
