package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caijiayiLinda/online-shopping-mall/external/paypal"
	"github.com/caijiayiLinda/online-shopping-mall/internal/config"
	"github.com/caijiayiLinda/online-shopping-mall/internal/db"
	"github.com/caijiayiLinda/online-shopping-mall/internal/logger"
	appmw "github.com/caijiayiLinda/online-shopping-mall/internal/middleware"
	"github.com/caijiayiLinda/online-shopping-mall/internal/repository"
	"github.com/caijiayiLinda/online-shopping-mall/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// ======================
	// CONFIG + LOGGING
	// ======================
	opts := config.NewOptions()
	opts.ParseFlags()

	zl, err := logger.NewLogger(opts.LogLevel())
	if err != nil {
		log.Fatalln(err)
	}
	defer zl.Sync()

	appmw.SetSecret(opts.JWTSecret())

	// ======================
	// INFRA
	// ======================
	ctx := context.Background()

	if err := db.RunMigrations(opts.DatabaseDSN()); err != nil {
		zl.Fatal("migrations failed", zap.Error(err))
	}
	pool, err := db.Connect(ctx, opts.DatabaseDSN())
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	returnURL := os.Getenv("PAYPAL_RETURN_URL")
	cancelURL := os.Getenv("PAYPAL_CANCEL_URL")
	gateway, err := paypal.NewGateway(opts.PayPalID(), opts.PayPalSecret(), returnURL, cancelURL)
	if err != nil {
		zl.Fatal("paypal client init failed", zap.Error(err))
	}

	images, err := services.NewImageService(opts.ImageDir(), zl)
	if err != nil {
		zl.Fatal("image store init failed", zap.Error(err))
	}

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(userRepo)
	categorySvc := services.NewCategoryService(categoryRepo)
	productSvc := services.NewProductService(productRepo, categoryRepo, images)
	checkoutSvc := services.NewCheckoutService(orderRepo, gateway, zl)
	orderSvc := services.NewOrderService(orderRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Static("/images", opts.ImageDir())
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "OK"})
	})

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc)
	registerCategoryRoutes(api, categorySvc)
	registerProductRoutes(api, productSvc)
	registerCheckoutRoutes(api, checkoutSvc)
	registerOrderRoutes(api, orderSvc)

	// ======================
	// SERVER
	// ======================
	go func() {
		zl.Info("server starting", zap.String("addr", opts.RunAddr()))
		if err := e.Start(opts.RunAddr()); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	zl.Info("server stopped gracefully")
}
