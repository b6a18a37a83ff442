package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_CountsByLabel(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	rec.UpstreamRequest("sofascore", "ok")
	rec.UpstreamRequest("sofascore", "ok")
	rec.UpstreamRequest("sofascore", "status_503")
	rec.Skipped("match", "not_finished")
	rec.EventEmitted("goal")
	rec.SeasonPlayers(4)

	if got := testutil.ToFloat64(rec.upstreamRequests.WithLabelValues("sofascore", "ok")); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(rec.skippedUnits.WithLabelValues("match", "not_finished")); got != 1 {
		t.Fatalf("expected 1 skipped match, got %v", got)
	}
	if got := testutil.ToFloat64(rec.seasonPlayers); got != 4 {
		t.Fatalf("expected gauge 4, got %v", got)
	}

	if _, err := NewRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var rec *Recorder
	rec.UpstreamRequest("apifootball", "ok")
	rec.Skipped("player", "fetch_failed")
	rec.EventEmitted("card")
	rec.SeasonPlayers(1)
}
