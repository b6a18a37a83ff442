// Command seasonstats prints the current season table for the tracked roster, or for
// one player when -player is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/riskibarqy/canmnt-live/internal/app"
	"github.com/riskibarqy/canmnt-live/internal/config"
	"github.com/riskibarqy/canmnt-live/internal/domain/seasonstat"
	"github.com/riskibarqy/canmnt-live/internal/platform/logging"
)

func main() {
	player := flag.String("player", "", "exact roster name; empty means the whole roster")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg.MetricsEnabled = false

	logger := logging.NewJSON(cfg.LogLevel, "canmnt-seasonstats")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	components, err := app.NewComponents(cfg, logger)
	if err != nil {
		logger.Error("build components", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := collect(ctx, stop, func() map[string]seasonstat.SeasonStat {
		return components.SeasonStats.PlayerSeasonStats(ctx, *player)
	})
	if err != nil {
		logger.Warn("season stats interrupted", "error", err)
		os.Exit(130)
	}
	if err := printTable(os.Stdout, components.SeasonStats.SeasonLabel(), stats); err != nil {
		logger.Error("print season table", "error", err)
		os.Exit(1)
	}
}

// collect runs the aggregation in the background and stops waiting when ctx is done.
// The aggregation ignores cancellation, so the first signal abandons it and stop
// restores the default handlers for any later one.
func collect(ctx context.Context, stop func(), run func() map[string]seasonstat.SeasonStat) (map[string]seasonstat.SeasonStat, error) {
	done := make(chan map[string]seasonstat.SeasonStat, 1)
	go func() { done <- run() }()

	select {
	case stats := <-done:
		return stats, nil
	case <-ctx.Done():
		stop()
		return nil, ctx.Err()
	}
}

func printTable(out io.Writer, season string, stats map[string]seasonstat.SeasonStat) error {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	if _, err := fmt.Fprintf(out, "Season %s: %d player(s)\n", season, len(names)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tTEAM\tMP\tMIN\tG\tA\tRATING\tFORM")
	for _, name := range names {
		s := stats[name]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%.2f\t%d\n",
			s.Player, s.Team, s.Matches, s.Minutes, s.Goals, s.Assists, s.Rating, s.FormRating)
	}
	return tw.Flush()
}
