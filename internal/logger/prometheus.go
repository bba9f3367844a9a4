package logger

import (
	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/metrics"
)

type prometheusHook struct{}

func (h *prometheusHook) Fire(entry *log.Entry) error {
	errorType, ok := entry.Data[ErrorTypeField].(string)
	if !ok {
		errorType = "unknown"
	}

	metrics.ErrorsCounter.WithLabelValues(errorType).Inc()
	return nil
}

func (h *prometheusHook) Levels() []log.Level {
	return []log.Level{
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func addPrometheusHook() {
	log.AddHook(&prometheusHook{})
}
