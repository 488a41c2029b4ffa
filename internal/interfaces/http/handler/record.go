package handler

import (
	"context"
	"net/http"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecordService is the scoped CRUD surface of one record kind
type RecordService[T any] interface {
	Kind() record.Kind
	List(ctx context.Context, actor access.Actor, params map[string][]string) (*query.Result[T], error)
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*T, error)
	Create(ctx context.Context, actor access.Actor, fields access.Fields) (*T, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, patch access.Fields) (*T, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
}

// RecordHandler serves the list, read and write routes of one record kind
type RecordHandler[T any] struct {
	BaseHandler
	svc RecordService[T]
}

// NewRecordHandler creates a RecordHandler
func NewRecordHandler[T any](svc RecordService[T]) *RecordHandler[T] {
	return &RecordHandler[T]{svc: svc}
}

// List answers with the page envelope itself
func (h *RecordHandler[T]) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.svc.List(c.Request.Context(), actor, c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one record
func (h *RecordHandler[T]) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create stores a new record owned by the caller
func (h *RecordHandler[T]) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var fields access.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	item, err := h.svc.Create(c.Request.Context(), actor, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update patches a record
func (h *RecordHandler[T]) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var patch access.Fields
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	item, err := h.svc.Update(c.Request.Context(), actor, id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes a record
func (h *RecordHandler[T]) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{})
}
