package response

import (
	"net/http"

	appErr "draw-poker/pkg/errors"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code   int         `json:"code"`
	Reason string      `json:"reason,omitempty"`
	Data   interface{} `json:"data"`
	Msg    string      `json:"msg"`
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data, "")
}

func SuccessWithMsg(c *gin.Context, data interface{}, msg string) {
	JSON(c, http.StatusOK, data, msg)
}

func Error(c *gin.Context, status int, msg string) {
	JSON(c, status, gin.H{}, msg)
}

// Fail reports err with its stable reason code so clients can branch on it.
func Fail(c *gin.Context, status int, err error) {
	c.JSON(status, Body{
		Code:   status,
		Reason: appErr.Code(err),
		Data:   gin.H{},
		Msg:    err.Error(),
	})
}

func JSON(c *gin.Context, status int, data interface{}, msg string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Body{
		Code: status,
		Data: data,
		Msg:  msg,
	})
}
