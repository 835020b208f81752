package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func init() {
	// Never expose debug information because of a misconfiguration
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// Run builds the app, blocks until a stop signal and then stops it.
func Run(name string, opts ...fx.Option) {
	app := fx.New(
		fx.Options(opts...),
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l.With(slog.String("component", "fx"))}
		}),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start application", "service", name, "error", err)
		os.Exit(1)
	}

	sig := <-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	if err := app.Stop(stopCtx); err != nil {
		slog.Error("failed to stop application cleanly", "service", name, "error", err)
	}
	cancel()

	slog.Info("application stopped", "service", name)
	os.Exit(sig.ExitCode)
}
