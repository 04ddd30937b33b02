package middleware

import (
	"errors"
	"net/http"

	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
)

// OK writes the uniform success envelope.
func OK(c *gin.Context, data any) {
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"code": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": data})
}

// JSONError maps a CodeError (or any error) onto an HTTP status and the
// {code,msg,detail} body.
func JSONError(c *gin.Context, err error) {
	var ce *errs.CodeError
	if !errors.As(err, &ce) {
		ce = errs.ErrInternal.WithDetail(err.Error())
	}
	status := http.StatusInternalServerError
	switch ce.Code {
	case errs.ErrInvalidParam.Code:
		status = http.StatusBadRequest
	case errs.ErrTokenExpired.Code:
		status = http.StatusUnauthorized
	case errs.ErrRecordNotFound.Code:
		status = http.StatusNotFound
	case errs.ErrRecordIsExist.Code:
		status = http.StatusConflict
	}
	c.JSON(status, ce)
}
