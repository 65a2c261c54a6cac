package main

import (
	"errors"
	"net/http"

	"github.com/caijiayiLinda/online-shopping-mall/internal/repository"
	"github.com/caijiayiLinda/online-shopping-mall/internal/services"

	"github.com/labstack/echo/v4"
)

// paypalWebhookEvent is the subset of the provider notification the
// handler cares about.
type paypalWebhookEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		CustomID      string `json:"custom_id"`
		PurchaseUnits []struct {
			ReferenceID string `json:"reference_id"`
		} `json:"purchase_units"`
	} `json:"resource"`
}

func checkoutHandler(checkoutSvc *services.CheckoutService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req services.CheckoutRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request format"})
		}

		approvalURL, err := checkoutSvc.Checkout(c.Request().Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrValidation):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
			}
		}

		return c.JSON(http.StatusOK, echo.Map{"approvalUrl": approvalURL})
	}
}

// webhookHandler processes provider notifications. Unknown invoices
// and digest mismatches are acknowledged with 200 so the provider
// stops retrying; the mismatch is already logged by the service.
func webhookHandler(checkoutSvc *services.CheckoutService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var event paypalWebhookEvent
		if err := c.Bind(&event); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		if event.Resource.Status != "APPROVED" {
			return c.NoContent(http.StatusOK)
		}

		invoice := event.Resource.CustomID
		if len(event.Resource.PurchaseUnits) > 0 && event.Resource.PurchaseUnits[0].ReferenceID != "" {
			invoice = event.Resource.PurchaseUnits[0].ReferenceID
		}
		if invoice == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing invoice reference"})
		}

		err := checkoutSvc.ApprovePayment(c.Request().Context(), invoice)
		if err != nil && !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, services.ErrDigestMismatch) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to process notification"})
		}
		return c.NoContent(http.StatusOK)
	}
}

func registerCheckoutRoutes(g *echo.Group, checkoutSvc *services.CheckoutService) {
	g.POST("/checkout/paypal", checkoutHandler(checkoutSvc))
	g.POST("/paypal/webhook", webhookHandler(checkoutSvc))
}
