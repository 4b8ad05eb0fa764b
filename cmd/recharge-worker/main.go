package main

import (
	"fmt"
	"os"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/pkg/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg := config.New(path)
	worker := InitWorker(cfg)
	cliApp := &cli.App{
		Name: "recharge-worker",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start recharge consumer",
				Action: worker.Run,
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start worker", zap.Error(err))
	}
}
