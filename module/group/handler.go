package group

import (
	"strconv"
	"time"

	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"
	groupservice "ChatWave/module/group/service"
	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *groupservice.Service
}

func NewHandler(svc *groupservice.Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Create(c *gin.Context) {
	var in struct {
		Name      string   `json:"name"`
		MemberIDs []string `json:"memberIds"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	g, err := h.svc.Create(c.Request.Context(), midsec.UserID(c), in.Name, in.MemberIDs)
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, g)
}

func (h *Handler) Get(c *gin.Context) {
	g, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, g)
}

func (h *Handler) List(c *gin.Context) {
	gs, err := h.svc.ListForUser(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, gs)
}

func (h *Handler) Join(c *gin.Context) {
	if err := h.svc.Join(c.Request.Context(), c.Param("id"), midsec.UserID(c)); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, nil)
}

func (h *Handler) Leave(c *gin.Context) {
	if err := h.svc.Leave(c.Request.Context(), c.Param("id"), midsec.UserID(c)); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, nil)
}

func (h *Handler) Send(c *gin.Context) {
	var in struct {
		Content     string `json:"content"`
		ContentType int32  `json:"contentType"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	m, err := h.svc.SendMessage(c.Request.Context(), c.Param("id"), midsec.UserID(c),
		in.Content, in.ContentType)
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, m)
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

	items, err := h.svc.History(c.Request.Context(), c.Param("id"), before, limit)
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, items)
}
