package server

import (
	"github.com/Aru0077/elife-service/handler"
)

type Handlers struct {
	Auth         *handler.Auth
	Unitel       *handler.Unitel
	Pay          *handler.Pay
	ExchangeRate *handler.ExchangeRate
}
