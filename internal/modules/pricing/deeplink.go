package pricing

import (
	"net/url"
	"strconv"

	"taxiwatch/internal/types"
)

const (
	orderLinkBase       = "https://3.redirect.appmetrica.yandex.com/route"
	appmetricaTrackerID = "1178268795219780156"
)

// OrderLink returns the app deep link that opens an order form for the route.
func OrderLink(origin, destination types.Point, classLevel int, ref string) string {
	q := url.Values{}
	q.Set("start-lat", formatCoord(origin.Lat))
	q.Set("start-lon", formatCoord(origin.Lon))
	q.Set("end-lat", formatCoord(destination.Lat))
	q.Set("end-lon", formatCoord(destination.Lon))
	q.Set("level", strconv.Itoa(classLevel))
	q.Set("ref", ref)
	q.Set("appmetrica_tracking_id", appmetricaTrackerID)
	return orderLinkBase + "?" + q.Encode()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
