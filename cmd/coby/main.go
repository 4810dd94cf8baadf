package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"

	"github.com/wangqin0/coby/internal/cli"
	"github.com/wangqin0/coby/internal/utils"
)

// main is the entry point for the coby command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() { _ = loggerInstance.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	applicationExecutionError := cli.Execute(ctx)
	if applicationExecutionError == nil {
		return
	}
	var reported *cli.ReportedError
	if errors.As(applicationExecutionError, &reported) || errors.Is(applicationExecutionError, context.Canceled) {
		stop()
		_ = loggerInstance.Sync()
		os.Exit(1)
	}
	loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
}
