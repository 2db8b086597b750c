// Command agentjoggler runs the warehouse multi-agent simulation:
// windowed cooperative path planning, order generation, and a render
// message stream over stdout (or a file:// sink). A flag-light,
// signal-driven ticker loop.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/szobov/agent-joggler/internal/apperrors"
	"github.com/szobov/agent-joggler/internal/config"
	"github.com/szobov/agent-joggler/internal/layout"
	"github.com/szobov/agent-joggler/internal/logging"
	"github.com/szobov/agent-joggler/internal/render"
	"github.com/szobov/agent-joggler/internal/sim"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logging.New(slog.LevelInfo)

	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		log.Error("configuration error", "err", err)
		return 2
	}

	rng := rand.New(rand.NewSource(cfg.RandomSeed))
	world, agents, err := layout.Build(cfg, rng)
	if err != nil {
		log.Error("layout error", "err", err)
		return 2
	}

	sink, closeSink := resolveSink(cfg.RenderTransportURL, log)
	defer closeSink()

	simulation := sim.New(world, agents, sim.Config{
		PlanningWindow:     cfg.PlanningWindow,
		ReservationHorizon: cfg.ReservationHorizon,
		PlanAnchorK:        cfg.PlanAnchorK,
		MaxFailures:        5,
		OrderBacklogMax:    cfg.NumAgents * 2,
		PickupProbability:  0.5,
	}, cfg.RandomSeed, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.TickPeriod)
	defer ticker.Stop()

	log.Info("simulation starting",
		"grid", fmt.Sprintf("%dx%d", cfg.GridWidth, cfg.GridHeight),
		"agents", cfg.NumAgents, "tick_period", cfg.TickPeriod)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown requested, stopping at next tick boundary")
			return 0
		case <-ticker.C:
			if err := simulation.Step(); err != nil {
				if errors.Is(err, apperrors.ErrPlannerUnreachable) {
					log.Error("unrecoverable planner failure", "err", err)
					return 3
				}
				log.Error("tick error", "err", err)
				return 3
			}
			if err := simulation.RenderQueue.FlushTo(sink); err != nil {
				log.Warn("render sink error, frame dropped", "err", err)
			}
		}
	}
}

// resolveSink honors RENDER_TRANSPORT_URL when it names a local
// file://; any other scheme is logged, not dialed, since the real
// transport is an external collaborator out of scope here.
func resolveSink(rawURL string, log *slog.Logger) (render.Sink, func()) {
	if rawURL == "" {
		return render.NewWriterSink(os.Stdout), func() {}
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		log.Warn("unrecognized render transport URL, discarding frames", "url", rawURL)
		return render.NullSink{}, func() {}
	}
	if u.Scheme == "file" {
		path := strings.TrimPrefix(rawURL, "file://")
		f, err := os.Create(path)
		if err != nil {
			log.Warn("could not open render output file, discarding frames", "path", path, "err", err)
			return render.NullSink{}, func() {}
		}
		return render.NewWriterSink(f), func() { f.Close() }
	}
	log.Warn("render transport is an external collaborator; logging instead of dialing", "url", rawURL)
	return render.NullSink{}, func() {}
}
