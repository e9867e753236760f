package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/mlops-microproject/review-workspace/internal/app"
	"github.com/mlops-microproject/review-workspace/internal/config"
	"github.com/mlops-microproject/review-workspace/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "run mode: all (default), api, worker")
	flag.Parse()

	printStartupBanner()

	cfg := config.Load()
	opts := cfg.Log.ToLoggerOptions()
	opts.Fields = map[string]string{
		"service":     cfg.Model.Name,
		"environment": cfg.Server.Environment,
		"mode":        mode,
	}
	logger.Init(cfg.Server.Mode, opts)
	stdLog := logger.StdLogger()

	if err := cfg.Validate(); err != nil {
		stdLog.Fatalf("invalid configuration: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("server stopped with error: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "review-workspace" + ansiReset)
	fmt.Println(ansiDim + "order satisfaction analysis api" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
