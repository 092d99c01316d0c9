package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/groundwater-assist/water-game/internal/sim"
	"github.com/groundwater-assist/water-game/internal/tui"
)

func main() {
	cfg, err := sim.LoadEnvConfig(".env")
	if err != nil {
		log.Fatal(err)
	}
	session, err := sim.NewSession(cfg, nil)
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	app := tui.New(screen, cfg)
	sched := sim.NewScheduler(session, sim.WithHooks(app.Hooks()))
	app.Bind(sched)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() { _ = sched.Run(ctx) }()

	err = app.Run(ctx)
	cancel()
	<-sched.Done()
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
