package visual

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var blobDownloadCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_blob_downloads",
	Help: "Number of blobs downloaded, by HTTP status code",
}, []string{"status"})

var blobDownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "automod_blob_download_duration_sec",
	Help: "Duration of blob download attempts",
})

var imageHashCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_image_hashes",
	Help: "Number of images perceptually hashed, by result",
}, []string{"result"})
