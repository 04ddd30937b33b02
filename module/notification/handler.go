package notification

import (
	"strconv"

	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	items, err := h.svc.List(c.Request.Context(), midsec.UserID(c), limit)
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, gin.H{
		"items":  items,
		"unread": h.svc.Unread(c.Request.Context(), midsec.UserID(c)),
	})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), midsec.UserID(c)); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, nil)
}
