package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	APIRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_api_requests_total",
			Help: "Total number of requests sent to the job portal API.",
		},
		[]string{"method", "status"},
	)
	APIRequestDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobportal_api_request_duration_seconds",
			Help:       "Duration of job portal API requests in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"method"},
	)
	SessionsExpiredCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobportal_sessions_expired_total",
			Help: "Total number of sessions cleared after a 401 response.",
		},
	)
	ListingResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobportal_listing_filtered_jobs",
			Help:    "Number of job postings left after client-side filtering.",
			Buckets: []float64{0, 1, 6, 12, 24, 50},
		},
	)
	CompletedCommandsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_bot_commands_completed_total",
			Help: "Total number of bot commands that reached their final step.",
		},
		[]string{"command"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(APIRequestsCounter)
		prometheus.MustRegister(APIRequestDuration)
		prometheus.MustRegister(SessionsExpiredCounter)
		prometheus.MustRegister(ListingResultSize)
		prometheus.MustRegister(CompletedCommandsCounter)
	})
}

func StartMetricsServer(port int) {

	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), mux))
	}()
}
