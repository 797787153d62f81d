package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/tidwall/gjson"
)

// Config holds the gateway settings, injected from the app config.
type Config struct {
	CatalogBaseURL string        // deals API root, no trailing slash needed
	StoreBaseURL   string        // storefront metadata API root
	APIKey         string        // optional; sent as the "key" query param when set
	Timeout        time.Duration // per-request timeout for both upstreams
}

const (
	defaultTimeout = 15 * time.Second

	trendingPageSize    = 12
	newReleasesPageSize = 10
	searchPageSize      = 20

	// maxResponseBytes caps how much of an upstream body we will read.
	// A misbehaving upstream should cost us at most 4 MiB, not all of RAM.
	maxResponseBytes = 4 << 20

	// diagnosticBytes caps the body snippet quoted in upstream error
	// messages — enough to see "rate limit exceeded", not a full payload.
	diagnosticBytes = 200
)

// Client calls the upstream game APIs and returns canonical records.
//
// One http.Client serves both upstreams. Its Timeout bounds each whole
// request (dial, headers, body); there are no retries — a slow catalog
// makes one request slow, it must not make it three requests slow.
type Client struct {
	http       *http.Client
	catalogURL string
	storeURL   string
	apiKey     string
	logger     *slog.Logger
}

// New creates a Client. A zero Timeout falls back to 15 seconds.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http:       &http.Client{Timeout: timeout},
		catalogURL: strings.TrimRight(cfg.CatalogBaseURL, "/"),
		storeURL:   strings.TrimRight(cfg.StoreBaseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Trending returns the deals feed sorted by deal rating — the closest thing
// the catalog has to "what's hot right now".
func (c *Client) Trending(ctx context.Context) ([]GameSummary, error) {
	params := url.Values{}
	params.Set("sortBy", "Deal Rating")
	params.Set("pageSize", strconv.Itoa(trendingPageSize))

	body, err := c.get(ctx, c.catalogURL+"/deals", params)
	if err != nil {
		return nil, err
	}
	return normalizeAll(body)
}

// NewReleases returns the deals feed sorted by recency.
func (c *Client) NewReleases(ctx context.Context) ([]GameSummary, error) {
	params := url.Values{}
	params.Set("sortBy", "Recent")
	params.Set("pageSize", strconv.Itoa(newReleasesPageSize))

	body, err := c.get(ctx, c.catalogURL+"/deals", params)
	if err != nil {
		return nil, err
	}
	return normalizeAll(body)
}

// Search looks up games by title. The page parameter is passed through to
// the upstream untouched — we don't own the paging scheme and don't pretend
// to. An empty query returns an empty result without an upstream call: the
// catalog treats "" as "everything", which is never what a search box means.
func (c *Client) Search(ctx context.Context, query, page string) ([]GameSummary, error) {
	if strings.TrimSpace(query) == "" {
		return []GameSummary{}, nil
	}

	params := url.Values{}
	params.Set("title", query)
	params.Set("pageSize", strconv.Itoa(searchPageSize))
	if page != "" {
		params.Set("pageNumber", page)
	}

	body, err := c.get(ctx, c.catalogURL+"/games", params)
	if err != nil {
		return nil, err
	}
	return normalizeAll(body)
}

// Game looks up a single game by its catalog ID and enriches it with
// storefront metadata when the record resolves to a store app ID.
//
// The primary lookup is load-bearing: its failures surface to the caller
// (and become a 500). Enrichment is best-effort: its failures are logged at
// debug level and the placeholder description/developer stay in place — a
// flaky storefront must never break the detail page.
func (c *Client) Game(ctx context.Context, id string) (*GameDetail, error) {
	params := url.Values{}
	params.Set("id", id)

	body, err := c.get(ctx, c.catalogURL+"/games", params)
	if err != nil {
		return nil, err
	}

	raw := gjson.ParseBytes(body)
	if raw.IsArray() {
		arr := raw.Array()
		if len(arr) == 0 {
			return nil, apperror.NotFound("game", id)
		}
		raw = arr[0]
	}

	detail := newDetail(NormalizeSummary(raw))
	if detail.ID == "" {
		// Lookup-by-id responses sometimes omit the id we queried with.
		detail.ID = id
	}

	if detail.SteamAppID != nil {
		c.enrich(ctx, *detail.SteamAppID, detail)
	}

	return detail, nil
}

// enrich overlays storefront metadata onto detail. Every early return leaves
// the placeholders intact; none of them is an error from the caller's point
// of view.
func (c *Client) enrich(ctx context.Context, appID string, detail *GameDetail) {
	params := url.Values{}
	params.Set("appids", appID)

	body, err := c.get(ctx, c.storeURL+"/appdetails", params)
	if err != nil {
		c.logger.Debug("storefront enrichment skipped",
			slog.String("appID", appID),
			slog.String("error", err.Error()),
		)
		return
	}

	// The storefront response is keyed by the app ID we asked about:
	// {"570": {"success": true, "data": {...}}}
	entry := gjson.GetBytes(body, appID)
	if !entry.Get("success").Bool() {
		c.logger.Debug("storefront has no entry for app", slog.String("appID", appID))
		return
	}
	data := entry.Get("data")
	if !data.Exists() {
		return
	}

	if img := data.Get("header_image").String(); img != "" {
		detail.BackgroundImage = img
	}

	desc := data.Get("short_description").String()
	if desc == "" {
		desc = data.Get("detailed_description").String()
	}
	if text := sanitizeDescription(desc); text != "" {
		detail.Description = text
	}

	if dev := data.Get("developers.0").String(); dev != "" {
		detail.Developer = dev
	}

	// Review score is out of 100; ours is out of 5.
	if score := data.Get("metacritic.score"); score.Exists() {
		detail.Rating = clamp05(score.Float() / 20)
	}

	// Kept verbatim — the storefront sends human-formatted dates
	// ("12 Nov, 2024") and the frontend displays them as-is.
	if date := data.Get("release_date.date").String(); date != "" {
		detail.Released = &date
	}
}

// get performs one GET and returns the body. All transport and status
// failures come back as apperror.ErrUpstream with a short diagnostic.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	requestURL := endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Upstream("fetch failed: " + requestCause(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperror.Upstream("fetch failed: reading response: " + err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.Upstream(fmt.Sprintf(
			"fetch failed: upstream status %d: %s", resp.StatusCode, bodySnippet(body),
		))
	}

	return body, nil
}

// normalizeAll parses an upstream list response and normalizes every record.
// The deals API returns a bare array; RAWG-style APIs wrap it in
// {"results": [...]} — accept both so the generic record path works end to
// end against either upstream.
func normalizeAll(body []byte) ([]GameSummary, error) {
	root := gjson.ParseBytes(body)
	if root.IsObject() && root.Get("results").Exists() {
		root = root.Get("results")
	}
	if !root.IsArray() {
		return nil, apperror.Upstream("fetch failed: unexpected catalog payload shape")
	}

	results := []GameSummary{}
	for _, raw := range root.Array() {
		results = append(results, NormalizeSummary(raw))
	}
	return results, nil
}

// requestCause digs the cause out of a url.Error. The url.Error string
// embeds the full request URL, which includes the API key when one is
// configured — the diagnostic keeps the cause only.
func requestCause(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > diagnosticBytes {
		s = s[:diagnosticBytes] + "..."
	}
	return s
}
