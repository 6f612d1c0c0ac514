package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var postProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "automod_post_duration_sec",
	Help:    "Total duration of post moderation, by outcome",
	Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
}, []string{"outcome"})

var postProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_posts_processed",
	Help: "Number of posts moderated, by outcome and skip reason",
}, []string{"outcome", "reason"})

var ruleFailureCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_rule_failures",
	Help: "Number of detector executions which failed and contributed no label",
}, []string{"rule"})

var labelCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_labels",
	Help: "Number of labels computed for posts",
}, []string{"val"})

var actionNewLabelCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_new_action_labels",
	Help: "Number of new labels persisted",
}, []string{"val"})

var actionPersistErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_action_persist_errors",
	Help: "Number of failed attempts to publish labels to the moderation service",
})
