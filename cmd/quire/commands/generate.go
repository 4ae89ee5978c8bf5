package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/Kush-Singh-26/quire/builder/metrics"
	"github.com/Kush-Singh-26/quire/internal/schedule"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Every time.Duration `help:"Keep running and regenerate at this interval (e.g. 10m)"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	b, err := root.builder(global, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := b.Generate(ctx)
	if err != nil {
		explain(os.Stderr, err)
		if g.Every <= 0 {
			return err
		}
	} else {
		fmt.Println(res.Metrics.String())
		if !res.Changed {
			fmt.Println("✨ Output unchanged")
		}
	}
	if g.Every <= 0 {
		return nil
	}

	sched, err := schedule.NewScheduler(b, global.logger())
	if err != nil {
		return err
	}
	if _, err := sched.Every(ctx, g.Every); err != nil {
		return err
	}
	sched.Start()
	fmt.Printf("⏱️  Regenerating every %v. Press Ctrl+C to stop.\n", g.Every)

	<-ctx.Done()
	return sched.Stop()
}
