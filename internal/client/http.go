package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ciphera/internal/domain"
)

// ErrNotFound is returned when the relay has no bundle for an identity.
var ErrNotFound = errors.New("client: key bundle not found")

// HTTP fetches published key bundles from a relay.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns an HTTP client for the relay at base. A nil hc uses http.DefaultClient.
func NewHTTP(base string, hc *http.Client) *HTTP {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// FetchKeys returns the UserInfo identity last published.
func (c *HTTP) FetchKeys(ctx context.Context, identity domain.Identity) (domain.UserInfo, error) {
	var out domain.UserInfo
	err := c.getJSON(ctx, "/keys/"+url.PathEscape(identity.String()), &out)
	if err != nil {
		return domain.UserInfo{}, err
	}
	return out, nil
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domain.KeyDirectory = (*HTTP)(nil)
