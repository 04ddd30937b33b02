package user

import (
	"context"
	"time"

	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"
	userservice "ChatWave/module/user/service"
	storage "ChatWave/service/storage"
	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
)

func HandlerRegister(c *gin.Context) {
	var in userservice.RegisterParams
	if err := c.ShouldBindJSON(&in); err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	u, err := userservice.Register(c.Request.Context(), in)
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, u)
}

func HandlerLogin(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	u, token, err := userservice.Login(c.Request.Context(), in.Email, in.Password,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, gin.H{"token": token, "user": u})
}

func HandlerLogout(c *gin.Context) {
	token := c.GetString(midsec.CtxTokenKey)
	if err := userservice.Logout(c.Request.Context(), token); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, nil)
}

func HandlerMe(c *gin.Context) {
	u, err := userservice.GetByID(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, u)
}

func HandlerUpdateProfile(c *gin.Context) {
	var in userservice.ProfileUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	if err := userservice.UpdateProfile(c.Request.Context(), midsec.UserID(c), in); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, nil)
}

// HandlerPresence reports the boolean connected flag from the redis mirror.
func HandlerPresence(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_, online, err := storage.PresenceLookup(ctx, c.Param("id"))
	if err != nil {
		// best-effort: an unavailable mirror reads as offline
		online = false
	}
	mid.OK(c, gin.H{"userId": c.Param("id"), "online": online})
}
