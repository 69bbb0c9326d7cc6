package engine

import (
	"strings"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's prometheus collectors.
type Metrics struct {
	toggles       *prometheus.CounterVec
	pageFetches   *prometheus.CounterVec
	commentTrees  *prometheus.CounterVec
	partialWrites prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "picfeed",
			Name:      "toggles_total",
			Help:      "Like and save toggles by set, operation and result.",
		}, []string{"set", "op", "result"}),
		pageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "picfeed",
			Name:      "feed_page_fetches_total",
			Help:      "Feed page fetches by result.",
		}, []string{"result"}),
		commentTrees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "picfeed",
			Name:      "comment_tree_builds_total",
			Help:      "Comment tree reads by result.",
		}, []string{"result"}),
		partialWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "picfeed",
			Name:      "save_partial_writes_total",
			Help:      "Saves whose join record and compensation both failed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.toggles, m.pageFetches, m.commentTrees, m.partialWrites)
	}
	return m
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ReplaceAll(errs.CodeOf(err).String(), " ", "_")
}
