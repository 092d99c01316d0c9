package main

import (
	"context"
	"log"

	"github.com/groundwater-assist/water-game/internal/game"
	"github.com/groundwater-assist/water-game/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := sim.LoadEnvConfig(".env")
	if err != nil {
		log.Fatal(err)
	}
	events := sim.NewEventLog(false)
	session, err := sim.NewSession(cfg, events)
	if err != nil {
		log.Fatal(err)
	}

	g := game.New(cfg, events)
	sched := sim.NewScheduler(session, sim.WithHooks(g.Hooks()))
	g.Bind(sched)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sched.Run(ctx) }()

	ebiten.SetWindowTitle("Water Conservation Game")
	ebiten.SetWindowSize(g.Size())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
