package safebrowsing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "automod_safebrowsing_api_duration_sec",
	Help: "Duration of Safe Browsing threat lookup API calls",
})

var lookupCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_safebrowsing_api_count",
	Help: "Number of Safe Browsing threat lookup API calls, by HTTP status code",
}, []string{"status"})

var lookupURLCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_safebrowsing_urls_checked",
	Help: "Number of URLs sent for threat lookup",
})

var threatMatchCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_safebrowsing_matches",
	Help: "Number of threat matches returned, by threat type",
}, []string{"type"})
