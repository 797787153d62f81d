package catalog

import (
	"html"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"
)

// The upstream returns three different record shapes, and nothing in the
// payload says which one you got — you have to look at the fields. We handle
// that with a small tagged-variant parser: classify() inspects the record
// once and names its shape, then exactly one mapping function runs per
// shape. Keeping classification separate from mapping means each mapper is a
// pure field-by-field translation with no "if this field exists" branching
// mixed into the arithmetic.
//
// gjson does the field access: raw.Get("dealRating") on a missing key
// returns a zero Result instead of panicking, and .Float() parses numbers
// that arrive as JSON strings (the deals API quotes ALL its numbers).

type recordKind int

const (
	kindDeal recordKind = iota // deal feed entry: dealID + title
	kindSearch                 // title-search hit: gameID + external/thumb
	kindGeneric                // anything else: best-effort extraction
)

// classify names the shape of a raw record.
//
// Order matters: a record carrying both a deal ID and a game ID is a deal
// record — the deal mapping already prefers the game ID where it helps.
func classify(raw gjson.Result) recordKind {
	if raw.Get("dealID").Exists() && raw.Get("title").Exists() {
		return kindDeal
	}
	if raw.Get("gameID").Exists() &&
		(raw.Get("external").Exists() || raw.Get("thumb").Exists()) {
		return kindSearch
	}
	return kindGeneric
}

// NormalizeSummary maps one raw upstream record onto the canonical shape.
func NormalizeSummary(raw gjson.Result) GameSummary {
	switch classify(raw) {
	case kindDeal:
		return mapDeal(raw)
	case kindSearch:
		return mapSearch(raw)
	default:
		return mapGeneric(raw)
	}
}

// mapDeal converts a deal-feed record.
//
// The interesting conversions:
//   - id: the stable game ID when the record has one, else the deal ID.
//     Deal IDs churn as prices change, so the game ID is always preferred.
//   - rating: dealRating is 0-10; halve it onto our 0-5 scale, clamp, and
//     keep one decimal.
//   - added: there is no popularity signal in a deal record, so the savings
//     percentage stands in for it — a 50% discount maps to 500. Truncated,
//     not rounded.
//   - released: deal records carry no usable release date; null.
func mapDeal(raw gjson.Result) GameSummary {
	id := raw.Get("gameID").String()
	if id == "" {
		id = raw.Get("dealID").String()
	}

	return GameSummary{
		ID:              id,
		Name:            raw.Get("title").String(),
		BackgroundImage: raw.Get("thumb").String(),
		Released:        nil,
		Rating:          round1(clamp05(raw.Get("dealRating").Float() / 2)),
		Added:           int(raw.Get("savings").Float() * 10),
		SteamAppID:      optString(raw.Get("steamAppID")),
	}
}

// mapSearch converts a title-search hit. Search records name the game in
// "external" and carry no rating, popularity, or release date at all — those
// default to zero values rather than being invented.
func mapSearch(raw gjson.Result) GameSummary {
	return GameSummary{
		ID:              raw.Get("gameID").String(),
		Name:            raw.Get("external").String(),
		BackgroundImage: raw.Get("thumb").String(),
		Released:        nil,
		Rating:          0,
		Added:           0,
		SteamAppID:      optString(raw.Get("steamAppID")),
	}
}

// mapGeneric is the fallback for records that are neither deals nor search
// hits. It tries the field names the various upstreams have used for each
// output and takes the first non-empty answer; numeric fields default to 0,
// the name to "Unknown", everything else to empty.
func mapGeneric(raw gjson.Result) GameSummary {
	name := firstString(raw, "name", "title", "external")
	if name == "" {
		name = "Unknown"
	}

	var released *string
	if s := firstString(raw, "released", "release_date"); s != "" {
		released = &s
	}

	var steamAppID *string
	if s := firstString(raw, "steam_appid", "steamAppID"); s != "" {
		steamAppID = &s
	}

	return GameSummary{
		ID:              firstString(raw, "id", "gameID", "dealID"),
		Name:            name,
		BackgroundImage: firstString(raw, "background_image", "thumb", "header_image"),
		Released:        released,
		Rating:          clamp05(raw.Get("rating").Float()),
		Added:           int(raw.Get("added").Int()),
		SteamAppID:      steamAppID,
	}
}

// firstString returns the first key that exists with a non-empty string
// form. gjson stringifies numbers, so a numeric id 42 comes back as "42".
func firstString(raw gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := raw.Get(key); v.Exists() {
			if s := v.String(); s != "" {
				return s
			}
		}
	}
	return ""
}

// optString converts a gjson field to *string: nil for missing, JSON null,
// or empty — all three mean "we don't have one".
func optString(v gjson.Result) *string {
	s := v.String()
	if s == "" {
		return nil
	}
	return &s
}

func clamp05(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// round1 rounds to one decimal place (4.85 → 4.9).
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// stripPolicy removes every HTML element. StrictPolicy allows nothing
// through — text content only. Built once; bluemonday policies are safe for
// concurrent use.
var stripPolicy = bluemonday.StrictPolicy()

// sanitizeDescription flattens storefront description markup to plain text.
//
// Storefront descriptions arrive as HTML fragments ("<b>Now with 50% more
// dragons!</b><br>..."). The policy strips the tags but leaves entities
// escaped (&amp; and friends), so we unescape afterwards to get readable
// text rather than double-escaped soup once the template engine re-escapes
// it for display.
func sanitizeDescription(markup string) string {
	text := stripPolicy.Sanitize(markup)
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}
