// README: Price watch session state, notification decisions and payloads.
package watch

import (
	"time"

	"taxiwatch/internal/types"
)

const (
	// dropRatio marks a quote as a drop when it is at most 95% of the last
	// price the user was told about.
	dropRatio = 0.95
	// notifyCooldown is the minimum spacing between notifications without a drop.
	notifyCooldown = 3 * time.Minute
	// firstBaselineAge backdates lastNotifiedAt on the first quote so the
	// cooldown never suppresses the first message.
	firstBaselineAge = 4 * time.Minute
)

// Route is the origin/destination pair of a search.
type Route struct {
	OriginName      string
	Origin          types.Point
	DestinationName string
	Destination     types.Point
}

// Session is the per-conversation price tracking record. It is owned by a
// single watch goroutine; Service guards it with the watch mutex.
type Session struct {
	ConversationID types.ConversationID
	SearchID       string
	Route          Route
	StartedAt      time.Time

	StartPrice        float64
	BestPrice         float64
	LastNotifiedPrice float64
	LastNotifiedAt    time.Time

	Ticks    int
	Failures int

	priced bool
}

// Decision is the outcome of recording one quote.
type Decision struct {
	First   bool
	Dropped bool
	Notify  bool
}

// Silent reports whether the notification should be delivered without sound.
func (d Decision) Silent() bool {
	return !d.Dropped
}

// Notification is the payload forwarded to the chat transport.
type Notification struct {
	ConversationID types.ConversationID
	SearchID       string
	Route          Route
	Price          float64
	PriceText      string
	StartPrice     float64
	BestPrice      float64
	MinPrice       float64
	Currency       string
	DurationText   string
	OrderURL       string
	Dropped        bool
	Silent         bool
}

// Snapshot is a read-only copy of a session for the admin API.
type Snapshot struct {
	ConversationID    types.ConversationID `json:"conversation_id"`
	SearchID          string               `json:"search_id"`
	OriginName        string               `json:"origin_name"`
	Origin            types.Point          `json:"origin"`
	DestinationName   string               `json:"destination_name"`
	Destination       types.Point          `json:"destination"`
	StartedAt         time.Time            `json:"started_at"`
	Priced            bool                 `json:"priced"`
	StartPrice        float64              `json:"start_price"`
	BestPrice         float64              `json:"best_price"`
	LastNotifiedPrice float64              `json:"last_notified_price"`
	LastNotifiedAt    *time.Time           `json:"last_notified_at,omitempty"`
	Ticks             int                  `json:"ticks"`
	Failures          int                  `json:"failures"`
}
