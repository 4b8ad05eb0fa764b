package context

import (
	"errors"
	"net/http"

	"github.com/Aru0077/elife-service/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	CtxOpenID = "openid"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 业务错误
			var be *response.BizError
			if errors.As(err, &be) {
				c.JSON(http.StatusOK, response.Response{
					Code: be.Code,
					Msg:  be.Msg,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, response.Response{
				Code: 500,
				Msg:  err.Error(),
			})
		}
	}
}

func GetOpenID(c *gin.Context) (string, error) {
	v, ok := c.Get(CtxOpenID)
	if !ok {
		return "", errors.New("openid 不存在")
	}

	openid, ok := v.(string)
	if !ok {
		return "", errors.New("openid 类型错误")
	}

	return openid, nil
}
