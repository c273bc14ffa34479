// Package directory looks up facility details from the hospital registry
// service. Enrichment is strictly best-effort: the registry being down must
// never block a login.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single registry lookup.
const DefaultTimeout = 5 * time.Second

// Facility is the registry's public view of a hospital, plus a display color
// derived from the facility type.
type Facility struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShortCode  string `json:"short_code,omitempty"`
	Type       string `json:"type,omitempty"`
	Level      string `json:"level,omitempty"`
	RegionName string `json:"region_name,omitempty"`
	City       string `json:"city,omitempty"`
	LogoURL    string `json:"logo_url,omitempty"`
	LogoColor  string `json:"logo_color"`
}

// typeColors maps facility types to their brand color. Unknown types fall
// back to the CHU blue.
var typeColors = map[string]string{
	"CHU":  "#0047AB",
	"CHR":  "#00A651",
	"CMA":  "#FDB813",
	"CSPS": "#20B2AA",
}

const defaultColor = "#0047AB"

// Client fetches facilities from the registry over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a registry client. A zero timeout falls back to
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// Lookup fetches a facility by ID. Every failure mode — empty ID, network
// error, non-200 status, bad JSON — returns nil so callers can attach the
// result without checking anything.
func (c *Client) Lookup(ctx context.Context, facilityID string) *Facility {
	if facilityID == "" {
		return nil
	}

	u := fmt.Sprintf("%s/facilities/%s", c.baseURL, url.PathEscape(facilityID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("facility_id", facilityID).Msg("registry request build failed")
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("facility_id", facilityID).Msg("registry unreachable")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("facility_id", facilityID).Msg("registry lookup failed")
		return nil
	}

	var fac Facility
	if err := json.NewDecoder(resp.Body).Decode(&fac); err != nil {
		c.log.Warn().Err(err).Str("facility_id", facilityID).Msg("registry response malformed")
		return nil
	}

	fac.LogoColor = ColorForType(fac.Type)
	return &fac
}

// ColorForType returns the display color for a facility type.
func ColorForType(facilityType string) string {
	if color, ok := typeColors[facilityType]; ok {
		return color
	}
	return defaultColor
}
