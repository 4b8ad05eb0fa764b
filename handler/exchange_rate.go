package handler

import (
	"net/http"

	"github.com/Aru0077/elife-service/pkg/context"
	"github.com/Aru0077/elife-service/pkg/response"
	"github.com/Aru0077/elife-service/service"
	"github.com/gin-gonic/gin"
)

type ExchangeRate struct {
	ExchangeService service.IExchangeRateService
}

func (e *ExchangeRate) RegisterRouter(r gin.IRouter) {
	r.GET("/v1/exchange-rate", context.Wrap(e.GetRate))
}

func (e *ExchangeRate) GetRate(c *gin.Context) error {
	rate, err := e.ExchangeService.Rate(c.Request.Context())
	if err != nil {
		return response.NewError(http.StatusInternalServerError, err.Error())
	}
	response.Success(c, gin.H{"rate": rate})
	return nil
}
