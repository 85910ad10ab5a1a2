// README: Geocoding contract shared by the chat flow and the concrete backends.
package maps

import (
	"context"
	"log/slog"

	"taxiwatch/internal/types"
)

// Geocoder resolves free-text addresses to coordinates and back.
type Geocoder interface {
	// Resolve returns types.ErrNotFound when there is no candidate and a
	// *types.TransportError on network, HTTP or decoding failures.
	Resolve(ctx context.Context, address string) (types.Point, error)
	ReverseResolve(ctx context.Context, p types.Point) (string, error)
}

// AddressOf returns a human-readable label for p, falling back to the raw
// coordinate string when the reverse lookup fails.
func AddressOf(ctx context.Context, g Geocoder, p types.Point) string {
	address, err := g.ReverseResolve(ctx, p)
	if err != nil || address == "" {
		if err != nil {
			slog.Warn("reverse geocoding failed", "point", p.String(), "err", err)
		}
		return p.String()
	}
	return address
}
