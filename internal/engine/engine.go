// Package engine implements the pilot and drone matching, assignment and
// conflict-detection operations over a tabular store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"droneops/internal/config"
	"droneops/internal/domain"
	"droneops/internal/events"
	"droneops/internal/logger"
	"droneops/internal/metrics"
	"droneops/internal/roster"
	"droneops/internal/store"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Engine evaluates the rules against a fresh read of the store on every call.
// It holds no state of its own, so a value can be shared across goroutines.
type Engine struct {
	Store   store.Store
	Events  events.Recorder
	Metrics metrics.Sink
	Log     logger.Logger
	Rules   config.Rules
	Now     func() time.Time
}

func New(s store.Store, rules config.Rules) Engine {
	return Engine{
		Store:   s,
		Events:  events.Discard{},
		Metrics: metrics.NopSink{},
		Log:     logger.Nop{},
		Rules:   rules,
		Now:     time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) log() logger.Logger {
	if e.Log == nil {
		return logger.Nop{}
	}
	return e.Log
}

func (e Engine) recorder() events.Recorder {
	if e.Events == nil {
		return events.Discard{}
	}
	return e.Events
}

func (e Engine) sink() metrics.Sink {
	if e.Metrics == nil {
		return metrics.NopSink{}
	}
	return e.Metrics
}

func (e Engine) currency() string {
	if e.Rules.Currency == "" {
		return "INR"
	}
	return e.Rules.Currency
}

func (e Engine) snapshot(ctx context.Context) (roster.Snapshot, error) {
	snap, err := roster.Load(ctx, e.Store)
	if err != nil {
		return snap, fmt.Errorf("load roster: %w", err)
	}
	for _, issue := range snap.Issues {
		e.log().Warnf("malformed data: %s", issue)
	}
	return snap, nil
}

func findMission(snap roster.Snapshot, id string) (domain.Mission, error) {
	m, ok := snap.MissionByID(id)
	if !ok {
		return m, fmt.Errorf("mission %s: %w", id, ErrNotFound)
	}
	return m, nil
}

func findPilot(snap roster.Snapshot, id string) (domain.Pilot, error) {
	p, ok := snap.PilotByID(id)
	if !ok {
		return p, fmt.Errorf("pilot %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// record appends an audit event. Failures are logged and never fail the
// operation that triggered them.
func (e Engine) record(ctx context.Context, evtType, kind, id string, payload events.EventPayload) {
	if err := e.recorder().Append(ctx, evtType, kind, id, ActorFrom(ctx), payload); err != nil {
		e.log().Warnf("record %s event for %s: %v", evtType, id, err)
	}
}
