// README: Fare quote returned by the taxi-info API and the persisted quote record.
package pricing

import (
	"time"

	"taxiwatch/internal/types"
)

// Quote is the current offer for the requested service class.
type Quote struct {
	Price        float64
	PriceText    string
	MinPrice     float64
	DurationText string
	Currency     string
	ClassName    string
	ClassLevel   int
	FetchedAt    time.Time
}

// QuoteRecord is one row of the quote_history log.
type QuoteRecord struct {
	ID             int64                `json:"id"`
	ConversationID types.ConversationID `json:"conversation_id"`
	SearchID       string               `json:"search_id"`
	Origin         types.Point          `json:"origin"`
	Destination    types.Point          `json:"destination"`
	Price          float64              `json:"price"`
	MinPrice       float64              `json:"min_price"`
	ClassName      string               `json:"class_name"`
	Notified       bool                 `json:"notified"`
	FetchedAt      time.Time            `json:"fetched_at"`
}

type taxiInfoResponse struct {
	Currency string  `json:"currency"`
	Distance float64 `json:"distance"`
	Time     float64 `json:"time"`
	TimeText string  `json:"time_text"`
	Options  []struct {
		ClassLevel  int     `json:"class_level"`
		ClassName   string  `json:"class_name"`
		ClassText   string  `json:"class_text"`
		MinPrice    float64 `json:"min_price"`
		Price       float64 `json:"price"`
		PriceText   string  `json:"price_text"`
		WaitingTime float64 `json:"waiting_time"`
	} `json:"options"`
}
