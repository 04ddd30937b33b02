package chat

import (
	"strconv"
	"time"

	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"
	chatservice "ChatWave/module/chat/service"
	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *chatservice.Service
}

func NewHandler(svc *chatservice.Service) *Handler { return &Handler{svc: svc} }

// Send is the authoritative direct-message write; the socket layer only
// carries the push.
func (h *Handler) Send(c *gin.Context) {
	var in struct {
		ReceiverID  string `json:"receiverId"`
		Content     string `json:"content"`
		ContentType int32  `json:"contentType"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	m, delivered, err := h.svc.SendDirect(c.Request.Context(), midsec.UserID(c),
		in.ReceiverID, in.Content, in.ContentType)
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, gin.H{"message": m, "delivered": delivered})
}

func (h *Handler) History(c *gin.Context) {
	var before time.Time
	if v := c.Query("before"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			mid.JSONError(c, errs.ErrInvalidParam.WithDetail("before must be unix millis"))
			return
		}
		before = time.UnixMilli(ms)
	}
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	items, err := h.svc.History(c.Request.Context(), midsec.UserID(c), c.Param("peerId"), before, limit)
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, items)
}
