// Package telemetry reports server errors to Sentry when a DSN is configured.
package telemetry

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/mohiniBalmiki/taxwise/internal/config"
)

// Init configures the global Sentry client. An empty DSN leaves reporting
// disabled; every capture call is then a no-op.
func Init(cfg config.SentryConfig) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: 0.2,
		EnableTracing:    cfg.DSN != "",
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// strip user identifiers and request bodies
			event.User = sentry.User{}
			if event.Request != nil {
				event.Request.Data = ""
			}
			return event
		},
	})
	if err != nil {
		return err
	}
	if cfg.DSN == "" {
		log.Println("telemetry: sentry DSN empty, error tracking disabled")
	} else {
		log.Println("telemetry: sentry initialised")
	}
	return nil
}

// Flush waits for buffered events to be sent.
func Flush() { sentry.Flush(2 * time.Second) }

// CaptureError reports err with the given tags.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// RecoverPanic reports a recovered panic value at fatal level.
func RecoverPanic(recovered interface{}, tags map[string]string) {
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		scope.SetLevel(sentry.LevelFatal)
		hub.Recover(recovered)
	})
	hub.Flush(2 * time.Second)
}
