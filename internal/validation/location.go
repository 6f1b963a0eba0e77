package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// NominatimVerifier asks a Nominatim search endpoint whether a place exists.
type NominatimVerifier struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewNominatimVerifier(baseURL, userAgent string, timeout time.Duration) *NominatimVerifier {
	return &NominatimVerifier{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

func (v *NominatimVerifier) VerifyLocation(ctx context.Context, query string) (bool, error) {
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return false, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", v.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		// *url.Error quotes the request URL, query included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return false, scrub(fmt.Errorf("geocoder request: %w", err), query, url.QueryEscape(query))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var places []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return false, fmt.Errorf("decode geocoder response: %w", err)
	}
	return len(places) > 0, nil
}
