package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Kush-Singh-26/quire/builder/metrics"
	"github.com/Kush-Singh-26/quire/internal/admin"
)

// AdminCmd implements the 'admin' command.
type AdminCmd struct {
	Host string `help:"Address to bind" default:"localhost"`
	Port int    `short:"p" help:"Port to listen on" default:"2605"`
}

func (a *AdminCmd) Run(global *Global, root *CLI) error {
	reg := prom.NewRegistry()
	reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))

	b, err := root.builder(global, metrics.NewPrometheusRecorder(reg))
	if err != nil {
		return err
	}

	srv, err := admin.NewServer(admin.Options{
		Addr:     net.JoinHostPort(a.Host, strconv.Itoa(a.Port)),
		Builder:  b,
		Gatherer: reg,
		Logger:   global.logger(),
	})
	if err != nil {
		return fmt.Errorf("%w: set admin.username and admin.password_hash in _config.yml", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()
	fmt.Printf("🔐 Admin API at http://%s\n", srv.Addr)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping admin server...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return srv.Shutdown(stopCtx)
}
