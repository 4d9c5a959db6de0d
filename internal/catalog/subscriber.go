package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
)

// Listener blocks until the next change notification has been delivered.
// Implementations must hand events over in transport order.
type Listener interface {
	Next(ctx context.Context) error
}

// ErrAlreadySubscribed is returned when a second Run is attempted while one
// is still active.
var ErrAlreadySubscribed = errors.New("subscription already active")

// Subscriber ties the live subscription to the local collection: one initial
// load, then a full snapshot reload per change event, applied in delivery
// order. Only one subscription may be active per Subscriber; a remount must
// cancel the previous Run before starting a new one.
type Subscriber struct {
	listener Listener
	service  *Service
	log      *slog.Logger
	running  atomic.Bool
}

// NewSubscriber wires a subscriber.
func NewSubscriber(listener Listener, service *Service, log *slog.Logger) *Subscriber {
	return &Subscriber{listener: listener, service: service, log: log}
}

// Run consumes change events until ctx is cancelled. A failed reload or a
// transport error degrades the cache but keeps the loop alive; the last
// known collection stays visible throughout.
func (s *Subscriber) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadySubscribed
	}
	defer s.running.Store(false)

	if err := s.service.Refresh(ctx); err != nil {
		s.log.Error("initial catalog load", slog.Any("err", err))
	}

	for {
		if err := s.listener.Next(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				s.log.Info("subscription stopped")
				return nil
			}
			s.log.Error("receive change event", slog.Any("err", err))
			s.service.Degrade(err)
			continue
		}

		if err := s.service.Refresh(ctx); err != nil {
			s.log.Error("reload catalog", slog.Any("err", err))
		}
	}
}
