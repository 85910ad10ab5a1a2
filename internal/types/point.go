// README: Shared value objects: coordinates and conversation identity.
package types

import (
	"fmt"
	"strconv"
)

// ConversationID identifies a chat; one search session exists per conversation.
type ConversationID int64

func (id ConversationID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Point is a WGS84 coordinate pair. Lon comes first because both the
// geocoder and the taxi API take "lon,lat".
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (p Point) IsZero() bool {
	return p.Lon == 0 && p.Lat == 0
}

func (p Point) String() string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(p.Lon, 'f', -1, 64),
		strconv.FormatFloat(p.Lat, 'f', -1, 64))
}
