package app

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/livraria/catalog/config"
	"github.com/Astemirdum/livraria/catalog/internal/controller"
	"github.com/Astemirdum/livraria/catalog/internal/notify"
	"github.com/Astemirdum/livraria/catalog/internal/service/books"
	"github.com/Astemirdum/livraria/catalog/internal/service/httpx"
	"github.com/Astemirdum/livraria/catalog/internal/service/loans"
	"github.com/Astemirdum/livraria/catalog/internal/shell"
	"github.com/Astemirdum/livraria/pkg/circuit_breaker"
	"github.com/Astemirdum/livraria/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Run serves the interactive catalog on in/out until exit, EOF or a
// termination signal.
func Run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	log := logger.NewLogger(cfg.Log, "catalog")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := httpx.New(log,
		&http.Client{Timeout: cfg.API.Timeout},
		cfg.API.BaseURL,
		circuit_breaker.NewFromConfig(cfg.Breaker),
	)
	sh := shell.New(log, in, out, isTerminal(in))
	ctrl := controller.New(log,
		books.NewService(log, api),
		loans.NewService(log, api),
		notify.New(sh, cfg.Feedback.TTL, log),
		sh,
		sh,
		controller.Options{
			PageSize:   cfg.List.PageSize,
			Debounce:   cfg.List.Debounce,
			DateLayout: cfg.View.DateLayout,
			Location:   time.Local,
		},
	)
	defer ctrl.Close()
	sh.Bind(ctrl)

	log.Info("catalog client start", zap.String("api", cfg.API.BaseURL))
	if err := sh.Run(ctx); err != nil {
		log.Error("shell run", zap.Error(err))
		return err
	}
	log.Info("catalog client stopped")
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
