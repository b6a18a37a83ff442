// Package metrics holds the prometheus collectors for upstream fetching and event
// extraction. A nil *Recorder is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "canmnt_live"

type Recorder struct {
	upstreamRequests *prometheus.CounterVec
	skippedUnits     *prometheus.CounterVec
	emittedEvents    *prometheus.CounterVec
	seasonPlayers    prometheus.Gauge
}

// NewRecorder registers the collectors on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		skippedUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_units_total",
			Help:      "Players or matches skipped after a soft failure or filter.",
		}, []string{"stage", "reason"}),
		emittedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "player_events_total",
			Help:      "Canonical player events produced, by kind.",
		}, []string{"kind"}),
		seasonPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "season_stats_players",
			Help:      "Players present in the last season stats result.",
		}),
	}

	for _, c := range []prometheus.Collector{r.upstreamRequests, r.skippedUnits, r.emittedEvents, r.seasonPlayers} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) UpstreamRequest(provider, outcome string) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(provider, outcome).Inc()
}

func (r *Recorder) Skipped(stage, reason string) {
	if r == nil {
		return
	}
	r.skippedUnits.WithLabelValues(stage, reason).Inc()
}

func (r *Recorder) EventEmitted(kind string) {
	if r == nil {
		return
	}
	r.emittedEvents.WithLabelValues(kind).Inc()
}

func (r *Recorder) SeasonPlayers(n int) {
	if r == nil {
		return
	}
	r.seasonPlayers.Set(float64(n))
}
