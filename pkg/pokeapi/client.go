package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	pkgerrors "github.com/baharudin-yusup/pokedex-backend/pkg/errors"
)

const (
	defaultBaseURL = "https://pokeapi.co/api/v2"
	// artworkURLTemplate is the deterministic fallback when the detail payload
	// carries no official artwork sprite.
	artworkURLTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"

	errorBodyReadLimit int64 = 1024
)

// DetailCache is the optional short-TTL cache around detail payloads.
// A Get error of any kind counts as a miss.
type DetailCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DetailCacheKey(ref string) string
}

// Client is the stateless boundary adapter over the remote feed. It performs
// no merging and holds no pagination state.
type Client struct {
	httpClient *http.Client
	baseURL    string

	cache    DetailCache
	cacheTTL time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithDetailCache wires a cache for detail payloads.
func WithDetailCache(cache DetailCache, ttl time.Duration) Option {
	return func(c *Client) {
		if cache != nil && ttl > 0 {
			c.cache = cache
			c.cacheTTL = ttl
		}
	}
}

// NewClient builds the remote feed client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// ListPage fetches one page of summaries at the given offset.
func (c *Client) ListPage(ctx context.Context, offset, limit int) (*Page, error) {
	endpoint := fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", strings.TrimRight(c.baseURL, "/"), offset, limit)

	var payload listResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	items := make([]PageItem, 0, len(payload.Results))
	for _, result := range payload.Results {
		items = append(items, PageItem{
			ID:   ParseIDFromURL(result.URL),
			Name: result.Name,
			URL:  result.URL,
		})
	}

	return &Page{
		Count:   payload.Count,
		HasNext: payload.Next != nil,
		Items:   items,
	}, nil
}

// GetByID fetches the full detail record for the given ID.
func (c *Client) GetByID(ctx context.Context, id int) (*Detail, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pokemon id must be positive")
	}
	return c.getDetail(ctx, strconv.Itoa(id))
}

// GetByName fetches the full detail record for the given name.
func (c *Client) GetByName(ctx context.Context, name string) (*Detail, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pokemon name is required")
	}
	return c.getDetail(ctx, url.PathEscape(trimmed))
}

// ListTypes fetches all known type names, capitalized like display labels.
func (c *Client) ListTypes(ctx context.Context) ([]string, error) {
	endpoint := fmt.Sprintf("%s/type", strings.TrimRight(c.baseURL, "/"))

	var payload typeListResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(payload.Results))
	for _, result := range payload.Results {
		names = append(names, capitalize(result.Name))
	}
	return names, nil
}

func (c *Client) getDetail(ctx context.Context, ref string) (*Detail, error) {
	if body, ok := c.cachedDetail(ctx, ref); ok {
		var payload detailResponse
		if err := json.Unmarshal([]byte(body), &payload); err == nil {
			return mapDetail(payload), nil
		}
		// poisoned cache entry falls through to a live fetch
	}

	endpoint := fmt.Sprintf("%s/pokemon/%s", strings.TrimRight(c.baseURL, "/"), ref)

	raw, err := c.getBody(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload detailResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "decode detail response")
	}

	c.storeDetail(ctx, ref, raw)

	return mapDetail(payload), nil
}

func (c *Client) cachedDetail(ctx context.Context, ref string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	body, err := c.cache.Get(ctx, c.cache.DetailCacheKey(ref))
	if err != nil || body == "" {
		return "", false
	}
	return body, true
}

func (c *Client) storeDetail(ctx context.Context, ref string, raw []byte) {
	if c.cache == nil {
		return
	}
	// best effort: a failed cache write must not fail the fetch
	_ = c.cache.Set(ctx, c.cache.DetailCacheKey(ref), string(raw), c.cacheTTL)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) error {
	raw, err := c.getBody(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, "decode response")
	}
	return nil
}

func (c *Client) getBody(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no such pokemon")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemote,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"request failed")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "read response body")
	}
	return raw, nil
}

var canonicalStatNames = map[string]func(*Stats, int){
	"hp":              func(s *Stats, v int) { s.HP = v },
	"attack":          func(s *Stats, v int) { s.Attack = v },
	"defense":         func(s *Stats, v int) { s.Defense = v },
	"special-attack":  func(s *Stats, v int) { s.SpecialAttack = v },
	"special-defense": func(s *Stats, v int) { s.SpecialDefense = v },
	"speed":           func(s *Stats, v int) { s.Speed = v },
}

func mapDetail(payload detailResponse) *Detail {
	detail := &Detail{
		ID:     payload.ID,
		Name:   payload.Name,
		Height: payload.Height,
		Weight: payload.Weight,
	}

	if sprite := payload.Sprites.Other.OfficialArtwork.FrontDefault; sprite != nil && *sprite != "" {
		detail.ImageURL = *sprite
	} else {
		detail.ImageURL = ArtworkURL(payload.ID)
	}

	detail.Types = make([]string, 0, len(payload.Types))
	for _, entry := range payload.Types {
		detail.Types = append(detail.Types, entry.Type.Name)
	}

	detail.Abilities = make([]string, 0, len(payload.Abilities))
	for _, entry := range payload.Abilities {
		detail.Abilities = append(detail.Abilities, entry.Ability.Name)
	}

	detail.Stats = extractStats(payload)
	return detail
}

// extractStats returns the six-stat group, or nil when any canonical stat is
// absent. Unrecognized stat names are ignored; a partial group is never kept.
func extractStats(payload detailResponse) *Stats {
	stats := &Stats{}
	seen := make(map[string]bool, len(canonicalStatNames))
	for _, entry := range payload.Stats {
		assign, ok := canonicalStatNames[entry.Stat.Name]
		if !ok {
			continue
		}
		assign(stats, entry.BaseStat)
		seen[entry.Stat.Name] = true
	}
	if len(seen) != len(canonicalStatNames) {
		return nil
	}
	return stats
}

// ParseIDFromURL extracts the numeric ID from the trailing path segment of a
// feed URL such as "https://pokeapi.co/api/v2/pokemon/25/". Returns 0 when
// the segment is not numeric.
func ParseIDFromURL(rawURL string) int {
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return 0
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// ArtworkURL returns the deterministic fallback artwork URL for an ID.
func ArtworkURL(id int) string {
	return fmt.Sprintf(artworkURLTemplate, id)
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
