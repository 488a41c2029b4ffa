package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fieldops/backend/internal/domain/record"
	"github.com/gin-gonic/gin"
)

// CollisionHandler serves accident report downloads
type CollisionHandler struct {
	BaseHandler
	svc RecordService[record.Collision]
}

// NewCollisionHandler creates a CollisionHandler
func NewCollisionHandler(svc RecordService[record.Collision]) *CollisionHandler {
	return &CollisionHandler{svc: svc}
}

// Download returns one collision record as a JSON attachment
func (h *CollisionHandler) Download(c *gin.Context) {
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

	body, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="collision_%s.json"`, id))
	c.Data(http.StatusOK, "application/json", body)
}
