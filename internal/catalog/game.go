// Package catalog is the gateway to the external game APIs.
//
// Two upstreams are involved:
//
//   - the deals catalog, which is where game records come from (trending,
//     new releases, title search, and lookup by ID)
//   - the storefront metadata API, which fills in descriptions, developers
//     and artwork once a record resolves to a store app ID
//
// Neither upstream agrees on a schema — even within one API a record can be
// deal-shaped or search-shaped depending on the endpoint. This package owns
// the mess: it classifies each raw record, maps it onto one canonical shape
// (GameSummary/GameDetail), and keeps all upstream field names out of the
// rest of the codebase.
package catalog

// GameSummary is the canonical game record every endpoint returns.
//
// Whatever shape the upstream sent, a normalized record always has these
// fields. Rating is on a 0-5 scale (upstream 0-10 deal ratings and 0-100
// review scores are converted during mapping). Added is a popularity proxy.
// Released and SteamAppID are pointers because "unknown" and "empty" are
// different answers: nil serializes as JSON null, which the frontend treats
// as "don't render this line".
type GameSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BackgroundImage string  `json:"background_image"`
	Released        *string `json:"released"`
	Rating          float64 `json:"rating"`
	Added           int     `json:"added"`
	SteamAppID      *string `json:"steam_appid"`
}

// GameDetail is a GameSummary plus the enrichment fields the detail page
// shows. The summary fields are embedded, so the JSON stays flat.
type GameDetail struct {
	GameSummary
	Description string `json:"description"`
	Developer   string `json:"developer"`
}

// Placeholder values used when enrichment is unavailable. The detail page
// always has something to render — a missing storefront entry must not turn
// into a broken page.
const (
	defaultDescription = "No description available."
	defaultDeveloper   = "Unknown Studio"
)

// newDetail wraps a summary in a GameDetail with placeholder enrichment
// fields. Enrichment overwrites them when the storefront lookup succeeds.
func newDetail(summary GameSummary) *GameDetail {
	return &GameDetail{
		GameSummary: summary,
		Description: defaultDescription,
		Developer:   defaultDeveloper,
	}
}
