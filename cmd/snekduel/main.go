// Command snekduel plays one match between two policy-driven snakes, either in
// a terminal view or headless.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snekduel/config"
	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/logging"
	"github.com/brensch/snekduel/match"
	"github.com/brensch/snekduel/render"
	"github.com/brensch/snekduel/rules"
	"github.com/brensch/snekduel/spectator"
)

func main() {
	configPath := flag.String("config", "", "YAML match file; built-in defaults when empty")
	policyA := flag.String("a", "", "Policy for the first snake: balanced, aggressive or defensive")
	policyB := flag.String("b", "", "Policy for the second snake: balanced, aggressive or defensive")
	seed := flag.Int64("seed", 0, "Food placement seed (overrides the config file)")
	tick := flag.Duration("tick", match.DefaultTick, "Delay between ticks; 0 runs as fast as possible")
	maxTicks := flag.Int("max-ticks", 0, "Abandon the match after this many ticks (0 = no limit)")
	headless := flag.Bool("headless", false, "Skip the terminal view and print the final board")
	spectate := flag.String("spectate", "", "Serve read-only spectators on this address, e.g. :8080")
	logFormat := flag.String("log-format", logging.FormatPretty, "Log format: pretty, json or text")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	logFile := flag.String("log-file", "", "Write logs to this file (the terminal view otherwise discards them)")
	flag.Parse()

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Seed = *seed
		}
	})
	for i, name := range []string{*policyA, *policyB} {
		if name == "" {
			continue
		}
		p, err := game.ParsePolicy(name)
		if err != nil {
			log.Fatalf("Bad policy for snake %d: %v", i+1, err)
		}
		cfg.Snakes[i].Policy = p
	}

	var logOut io.Writer = os.Stderr
	switch {
	case *logFile != "":
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	case !*headless:
		logOut = io.Discard
	}
	logger, err := logging.New(logOut, *logFormat, *logLevel)
	if err != nil {
		log.Fatalf("Bad logging flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := rules.New(cfg, rules.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to start match: %v", err)
	}

	opts := []match.Option{match.WithTick(*tick), match.WithMaxTicks(*maxTicks), match.WithLogger(logger)}
	if *spectate != "" {
		hub := spectator.NewHub(logger)
		opts = append(opts, match.WithSink(hub))
		go func() {
			if err := spectator.Serve(ctx, *spectate, hub); err != nil {
				logger.Error("spectator server stopped", "err", err)
			}
		}()
	}

	if *headless {
		runner := match.NewRunner(engine, opts...)
		sum, err := runner.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Match failed: %v", err)
		}
		printSummary(os.Stdout, engine.Snapshot(), sum)
		return
	}

	frames := make(match.ChanSink)
	sess := newSession(ctx, engine, frames, opts...)
	sess.Start()

	p := tea.NewProgram(newModel(frames, sess.Restart), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Printf("Terminal view failed: %v", err)
	}
	sum, err := sess.Stop()
	close(frames)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Match failed: %v", err)
	}
	printSummary(os.Stdout, engine.Snapshot(), sum)
}

func printSummary(w io.Writer, snap game.Snapshot, sum match.Summary) {
	fmt.Fprint(w, render.Board(snap))
	fmt.Fprintln(w, render.Status(snap))
	if !sum.Finished {
		fmt.Fprintf(w, "match %s unfinished after %d ticks\n", sum.MatchID, sum.Ticks)
	}
	for _, sn := range snap.Snakes {
		ss := sum.Snakes[sn.ID]
		fmt.Fprintf(w, "%s: moves %d | food eaten %d | length %d\n", sn.ID, ss.Moves, ss.FoodEaten, ss.Length)
	}
	st := sum.Stats
	fmt.Fprintf(w, "ticks %d | food spawned %d | head-on collisions %d | avg step %s\n",
		st.Ticks, st.FoodSpawned, st.HeadCollisions, st.AvgStep)
}
