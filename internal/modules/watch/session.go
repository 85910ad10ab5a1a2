package watch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxiwatch/internal/types"
)

func NewSession(conv types.ConversationID) *Session {
	return &Session{ConversationID: conv}
}

// Init stores the route and resets all price statistics. Both points are
// required.
func (s *Session) Init(route Route, now time.Time) error {
	if route.Origin.IsZero() {
		return fmt.Errorf("%w: origin coordinates are missing", types.ErrConfig)
	}
	if route.Destination.IsZero() {
		return fmt.Errorf("%w: destination coordinates are missing", types.ErrConfig)
	}
	conv := s.ConversationID
	*s = Session{
		ConversationID: conv,
		SearchID:       uuid.NewString(),
		Route:          route,
		StartedAt:      now,
	}
	return nil
}

// Priced reports whether the session has seen a successful quote.
func (s *Session) Priced() bool {
	return s.priced
}

// RecordQuote applies the notification policy to a fresh price and updates
// the running statistics accordingly.
func (s *Session) RecordQuote(price float64, now time.Time) Decision {
	var d Decision
	s.Ticks++

	if !s.priced {
		s.priced = true
		s.StartPrice = price
		s.BestPrice = price
		s.LastNotifiedPrice = price
		s.LastNotifiedAt = now.Add(-firstBaselineAge)
		d.First = true
	}

	// Compared against the last notified price, not the best price.
	d.Dropped = !d.First && price <= s.LastNotifiedPrice*dropRatio

	if price < s.BestPrice {
		s.BestPrice = price
	}

	d.Notify = d.Dropped || now.Sub(s.LastNotifiedAt) >= notifyCooldown
	if d.Notify {
		s.LastNotifiedPrice = price
		s.LastNotifiedAt = now
	}
	return d
}

// RecordFailure counts a tick whose quote could not be fetched.
func (s *Session) RecordFailure() {
	s.Ticks++
	s.Failures++
}

// Clear discards every field except the conversation identity.
func (s *Session) Clear() {
	*s = Session{ConversationID: s.ConversationID}
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ConversationID:    s.ConversationID,
		SearchID:          s.SearchID,
		OriginName:        s.Route.OriginName,
		Origin:            s.Route.Origin,
		DestinationName:   s.Route.DestinationName,
		Destination:       s.Route.Destination,
		StartedAt:         s.StartedAt,
		Priced:            s.priced,
		StartPrice:        s.StartPrice,
		BestPrice:         s.BestPrice,
		LastNotifiedPrice: s.LastNotifiedPrice,
		Ticks:             s.Ticks,
		Failures:          s.Failures,
	}
	if s.priced {
		t := s.LastNotifiedAt
		snap.LastNotifiedAt = &t
	}
	return snap
}
