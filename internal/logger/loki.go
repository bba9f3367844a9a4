package logger

import (
	"context"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/pkg/loki"
)

type logrusAdapter struct {
}

func (l *logrusAdapter) Error(msg string, args ...any) {
	log.WithFields(log.Fields{"args": args, "source": "loki"}).Error(msg)
}

type lokiHook struct {
	pusher   *loki.Pusher
	minLevel log.Level
}

func (h *lokiHook) Fire(entry *log.Entry) error {
	if entry.Data["source"] == "loki" {
		return nil
	}

	errorType, _ := entry.Data[ErrorTypeField].(string)
	requestID, _ := entry.Data[RequestIDField].(string)

	caller := ""
	if entry.Caller != nil {
		caller = filepath.Base(entry.Caller.Function) + ":" + strconv.Itoa(entry.Caller.Line)
	}

	return h.pusher.Push(loki.LogEntry{
		Time:      entry.Time,
		Level:     entry.Level.String(),
		Message:   entry.Message,
		Caller:    caller,
		ErrorType: errorType,
		RequestID: requestID,
	})
}

func (h *lokiHook) Levels() []log.Level {
	var levels []log.Level
	for _, level := range log.AllLevels {
		if level <= h.minLevel {
			levels = append(levels, level)
		}
	}
	return levels
}

func addLokiHook(ctx context.Context, cfg loki.Config, minLevel log.Level) (*loki.Pusher, error) {
	pusher, err := loki.New(ctx, cfg, &logrusAdapter{})
	if err != nil {
		return nil, err
	}
	log.AddHook(&lokiHook{pusher: pusher, minLevel: minLevel})
	log.Info("Loki logging enabled")
	return pusher, nil
}
