package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Total chat requests by resolved intent and outcome",
		},
		[]string{"intent", "status"},
	)

	ClassifierStageHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_classifier_stage_hits_total",
			Help: "Intent classifications by stage (semantic, lexical, guard, static, none)",
		},
		[]string{"stage"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_cache_lookups_total",
			Help: "Collaborator-response cache lookups by result",
		},
		[]string{"cache", "result"},
	)

	CollaboratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_collaborator_duration_seconds",
			Help: "Duration of collaborator data fetches in seconds",
		},
		[]string{"handler"},
	)
)
