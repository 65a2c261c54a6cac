package main

import (
	"errors"
	"net/http"
	"strconv"

	appmw "github.com/caijiayiLinda/online-shopping-mall/internal/middleware"
	"github.com/caijiayiLinda/online-shopping-mall/internal/repository"
	"github.com/caijiayiLinda/online-shopping-mall/internal/services"

	"github.com/labstack/echo/v4"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func categoryErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	case errors.Is(err, services.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

func registerCategoryRoutes(g *echo.Group, categorySvc *services.CategoryService) {
	g.GET("/categories", func(c echo.Context) error {
		list, err := categorySvc.List(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, list)
	})

	// name -> id lookup used by the navigation bar
	g.GET("/categories/id", func(c echo.Context) error {
		name := c.QueryParam("name")
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
		id, err := categorySvc.ResolveID(c.Request().Context(), name)
		if err != nil {
			return categoryErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"catid": id})
	})

	g.GET("/categories/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		cat, err := categorySvc.Get(c.Request().Context(), id)
		if err != nil {
			return categoryErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, cat)
	})

	adminMW := []echo.MiddlewareFunc{appmw.AuthRequired, appmw.AdminOnly, appmw.CSRF}

	g.POST("/categories", func(c echo.Context) error {
		req := new(categoryRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request format"})
		}
		id, err := categorySvc.Create(c.Request().Context(), req.Name)
		if err != nil {
			return categoryErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"catid": id, "name": req.Name})
	}, adminMW...)

	g.PUT("/categories/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		req := new(categoryRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request format"})
		}
		if err := categorySvc.Update(c.Request().Context(), id, req.Name); err != nil {
			return categoryErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"catid": id, "name": req.Name})
	}, adminMW...)

	g.DELETE("/categories/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		if err := categorySvc.Delete(c.Request().Context(), id); err != nil {
			return categoryErrorResponse(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}, adminMW...)
}
