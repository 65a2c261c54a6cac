package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	appmw "github.com/caijiayiLinda/online-shopping-mall/internal/middleware"
	"github.com/caijiayiLinda/online-shopping-mall/internal/repository"
	"github.com/caijiayiLinda/online-shopping-mall/internal/services"

	"github.com/labstack/echo/v4"
)

// maxImageSize bounds product image uploads.
const maxImageSize = 10 << 20 // 10MB

// bindProductForm reads the multipart fields shared by create and
// update. The returned image bytes are nil when no file was attached.
func bindProductForm(c echo.Context) (services.ProductInput, []byte, string, error) {
	var in services.ProductInput

	categoryID, err := strconv.ParseInt(c.FormValue("category_id"), 10, 64)
	if err != nil {
		return in, nil, "", errors.New("invalid category id")
	}
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return in, nil, "", errors.New("invalid price")
	}

	in.CategoryID = categoryID
	in.Name = c.FormValue("name")
	in.Price = price
	in.Description = c.FormValue("description")

	fh, err := c.FormFile("image")
	if err != nil {
		// image is optional here; the service decides whether it is required
		return in, nil, "", nil
	}
	if fh.Size > maxImageSize {
		return in, nil, "", errors.New("image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return in, nil, "", errors.New("unable to read image")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return in, nil, "", errors.New("unable to read image")
	}
	return in, data, fh.Filename, nil
}

func productErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrNotAnImage):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

func registerProductRoutes(g *echo.Group, productSvc *services.ProductService) {
	// public catalog
	g.GET("/products", func(c echo.Context) error {
		list, err := productSvc.List(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/products/category", func(c echo.Context) error {
		categoryID, err := strconv.ParseInt(c.QueryParam("category_id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
		}
		list, err := productSvc.ListByCategory(c.Request().Context(), categoryID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/products/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		p, err := productSvc.Get(c.Request().Context(), id)
		if err != nil {
			return productErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})

	// admin management
	adminMW := []echo.MiddlewareFunc{appmw.AuthRequired, appmw.AdminOnly, appmw.CSRF}

	g.POST("/products", func(c echo.Context) error {
		in, image, imageName, err := bindProductForm(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		p, err := productSvc.Create(c.Request().Context(), in, image, imageName)
		if err != nil {
			return productErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, p)
	}, adminMW...)

	g.PUT("/products/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		in, image, imageName, err := bindProductForm(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		p, err := productSvc.Update(c.Request().Context(), id, in, image, imageName)
		if err != nil {
			return productErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	}, adminMW...)

	g.DELETE("/products/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		if err := productSvc.Delete(c.Request().Context(), id); err != nil {
			return productErrorResponse(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}, adminMW...)
}
