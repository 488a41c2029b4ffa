package handler

import (
	"context"
	"net/http"

	"github.com/fieldops/backend/internal/application/payment"
	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService reconciles booking payments with the bill gateway
type PaymentService interface {
	SyncAll(ctx context.Context) (int, error)
	CheckOne(ctx context.Context, actor access.Actor, id uuid.UUID) (string, error)
	HandleCallback(ctx context.Context, cb payment.Callback) (*payment.CallbackResult, error)
}

// PaymentHandler serves payment checks and the gateway callback
type PaymentHandler struct {
	BaseHandler
	svc PaymentService
}

// NewPaymentHandler creates a PaymentHandler
func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// CheckAll syncs every unpaid booking and reports how many were settled
func (h *PaymentHandler) CheckAll(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	updated, err := h.svc.SyncAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UpdatedResponse{Success: true, Updated: updated})
}

// CheckOne checks a single booking. The data is the booking id once paid,
// otherwise "unpaid".
func (h *PaymentHandler) CheckOne(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.CheckOne(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Callback receives settlement notifications from the gateway
func (h *PaymentHandler) Callback(c *gin.Context) {
	var cb payment.Callback
	if err := c.ShouldBindJSON(&cb); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	result, err := h.svc.HandleCallback(c.Request.Context(), cb)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Duplicate {
		logger.GetGinLogger(c).Info("Duplicate payment callback ignored",
			zap.String("reference", result.Reference),
			zap.String("transaction_id", cb.TransactionID),
		)
	}
	h.Success(c, result)
}
