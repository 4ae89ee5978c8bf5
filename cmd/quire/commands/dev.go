package commands

import (
	"time"

	"github.com/Kush-Singh-26/quire/builder/metrics"
	"github.com/Kush-Singh-26/quire/internal/server"
)

// DevCmd implements the 'dev' command.
type DevCmd struct {
	Host     string        `help:"Address to bind" default:"localhost"`
	Port     int           `short:"p" help:"Port to listen on" default:"2604"`
	Debounce time.Duration `help:"Quiet period before regenerating after a change" default:"100ms"`
}

func (d *DevCmd) Run(global *Global, root *CLI) error {
	b, err := root.builder(global, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	srv := server.New(server.Options{
		Builder:  b,
		Host:     d.Host,
		Port:     d.Port,
		Debounce: d.Debounce,
		Logger:   global.logger(),
	})
	return srv.Run(ctx)
}
