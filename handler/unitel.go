package handler

import (
	"errors"
	"net/http"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/dao"
	"github.com/Aru0077/elife-service/middleware"
	"github.com/Aru0077/elife-service/pkg/context"
	"github.com/Aru0077/elife-service/pkg/response"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/Aru0077/elife-service/service"
	"github.com/Aru0077/elife-service/types"
	"github.com/gin-gonic/gin"
)

type Unitel struct {
	Config       *config.Config
	OrderService service.IUnitelOrderService
}

func (u *Unitel) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(u.Config.Jwt.Secret))
	grp := r.Group("/v1/unitel")
	grp.Use(authorize)
	{
		grp.GET("/servicetypes/:msisdn", context.Wrap(u.GetServiceTypes)) // 资费列表
		grp.GET("/invoice/:msisdn", context.Wrap(u.GetInvoice))          // 后付费账单
		grp.POST("/orders", context.Wrap(u.CreateOrder))
		grp.GET("/orders", context.Wrap(u.ListOrders))
		grp.GET("/orders/:order_no", context.Wrap(u.GetOrder))
	}
}

func (u *Unitel) GetServiceTypes(c *gin.Context) error {
	openid, err := context.GetOpenID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}
	msisdn := c.Param("msisdn")
	if msisdn == "" {
		return response.NewError(http.StatusBadRequest, "msisdn 不能为空")
	}

	resp, err := u.OrderService.GetServiceTypes(c.Request.Context(), openid, msisdn)
	if err != nil {
		return response.NewError(http.StatusInternalServerError, err.Error())
	}
	response.Success(c, resp)
	return nil
}

func (u *Unitel) GetInvoice(c *gin.Context) error {
	openid, err := context.GetOpenID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}
	msisdn := c.Param("msisdn")
	if msisdn == "" {
		return response.NewError(http.StatusBadRequest, "msisdn 不能为空")
	}

	resp, err := u.OrderService.GetInvoice(c.Request.Context(), openid, msisdn)
	if err != nil {
		return response.NewError(http.StatusInternalServerError, err.Error())
	}
	response.Success(c, resp)
	return nil
}

func (u *Unitel) CreateOrder(c *gin.Context) error {
	openid, err := context.GetOpenID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	var req types.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数错误: "+err.Error())
	}

	order, err := u.OrderService.CreateOrder(c.Request.Context(), openid, &req)
	if err != nil {
		switch {
		case errors.Is(err, unitel.ErrPackageNotFound):
			return response.NewError(http.StatusBadRequest, "套餐不存在或已下架")
		case errors.Is(err, unitel.ErrInvoicePeriodMismatch):
			return response.NewError(http.StatusBadRequest, "账期已变更，请刷新账单后重试")
		default:
			return err
		}
	}

	response.Success(c, order)
	return nil
}

func (u *Unitel) ListOrders(c *gin.Context) error {
	openid, err := context.GetOpenID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	var req types.OrderQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数错误: "+err.Error())
	}

	orders, pagination, err := u.OrderService.ListOrders(c.Request.Context(), openid, &req)
	if err != nil {
		return response.NewError(http.StatusInternalServerError, err.Error())
	}

	response.Success(c, gin.H{
		"list":       orders,
		"pagination": pagination,
	})
	return nil
}

func (u *Unitel) GetOrder(c *gin.Context) error {
	openid, err := context.GetOpenID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	order, err := u.OrderService.GetOrder(c.Request.Context(), openid, c.Param("order_no"))
	if err != nil {
		if errors.Is(err, dao.ErrOrderNotFound) {
			return response.NewError(http.StatusNotFound, "订单不存在")
		}
		return err
	}

	response.Success(c, order)
	return nil
}
