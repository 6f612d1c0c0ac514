package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var postFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_post_fetches",
	Help: "Number of post record reads (API calls), by result",
}, []string{"result"})

var accountMetaFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_account_meta_fetches",
	Help: "Number of account profile reads (API calls), by result",
}, []string{"result"})
