package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var expectationResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trusty_expectation_results",
	Help: "Number of batch posts compared against their expected labels, by result",
}, []string{"result"})

var batchPending = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "trusty_batch_pending",
	Help: "Number of posts in the current batch without a result yet",
})

func runMetrics(listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, mux)
}
