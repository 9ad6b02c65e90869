// Command tournament plays a series of headless matches in parallel and
// prints the standings.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/brensch/snekduel/config"
	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/logging"
	"github.com/brensch/snekduel/match"
)

func main() {
	configPath := flag.String("config", "", "YAML match file; built-in defaults when empty")
	matches := flag.Int("matches", 100, "Number of matches to play")
	workers := flag.Int("workers", runtime.NumCPU(), "Matches to run at once")
	maxTicks := flag.Int("max-ticks", 5000, "Abandon a match after this many ticks (0 = no limit)")
	asJSON := flag.Bool("json", false, "Print standings as JSON")
	logFormat := flag.String("log-format", logging.FormatPretty, "Log format: pretty, json or text")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn or error")
	flag.Parse()

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	logger, err := logging.New(os.Stderr, *logFormat, *logLevel)
	if err != nil {
		log.Fatalf("Bad logging flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	st, err := match.RunSeries(ctx, cfg, match.SeriesOptions{
		Matches:  *matches,
		Workers:  *workers,
		MaxTicks: *maxTicks,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Tournament failed: %v", err)
	}
	logger.Info("tournament finished", "matches", st.Matches, "elapsed", time.Since(start).Round(time.Millisecond))

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			log.Fatalf("Failed to encode standings: %v", err)
		}
		return
	}
	printStandings(os.Stdout, cfg, st)
}

func printStandings(w io.Writer, cfg game.Config, st match.Standings) {
	fmt.Fprintf(w, "%d matches on %dx%d\n\n", st.Matches, cfg.Width, cfg.Height)
	ids := make([]string, 0, len(st.Wins))
	for id := range st.Wins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	policy := map[string]game.Policy{}
	for _, sc := range cfg.Snakes {
		policy[sc.ID] = sc.Policy
	}
	fmt.Fprintf(w, "%-8s %-11s %6s %10s\n", "snake", "policy", "wins", "mean score")
	for _, id := range ids {
		fmt.Fprintf(w, "%-8s %-11s %6d %10.1f\n", id, policy[id], st.Wins[id], st.MeanScore[id])
	}
	fmt.Fprintf(w, "\nties %d | draws %d | unfinished %d | mean ticks %.1f\n", st.Ties, st.Draws, st.Unfinished, st.MeanTicks)
}
