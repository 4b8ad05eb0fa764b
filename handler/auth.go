package handler

import (
	"net/http"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/pkg/context"
	"github.com/Aru0077/elife-service/pkg/response"
	"github.com/Aru0077/elife-service/service"
	"github.com/Aru0077/elife-service/types"
	"github.com/gin-gonic/gin"
)

type Auth struct {
	Config      *config.Config
	AuthService service.IAuthService
}

func (a *Auth) RegisterRouter(r gin.IRouter) {
	auth := r.Group("/v1/auth")
	auth.POST("/login", context.Wrap(a.Login)) // 小程序登录
}

func (a *Auth) Login(c *gin.Context) error {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数错误: "+err.Error())
	}

	resp, err := a.AuthService.Login(c.Request.Context(), req.Code)
	if err != nil {
		return response.NewError(http.StatusInternalServerError, err.Error())
	}

	response.Success(c, resp)
	return nil
}
