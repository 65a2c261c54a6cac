package main

import (
	"errors"
	"net/http"

	appmw "github.com/caijiayiLinda/online-shopping-mall/internal/middleware"
	"github.com/caijiayiLinda/online-shopping-mall/internal/services"

	"github.com/labstack/echo/v4"
)

func registerOrderRoutes(g *echo.Group, orderSvc *services.OrderService) {
	// full order listing for the admin panel
	g.GET("/admin/orders", func(c echo.Context) error {
		orders, err := orderSvc.ListAll(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch orders"})
		}
		return c.JSON(http.StatusOK, orders)
	}, appmw.AuthRequired, appmw.AdminOnly)

	// customer order history
	g.GET("/orders/by-email", func(c echo.Context) error {
		orders, err := orderSvc.ListRecentByEmail(c.Request().Context(), c.QueryParam("email"))
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "email parameter is required"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch orders"})
		}
		return c.JSON(http.StatusOK, orders)
	})
}
