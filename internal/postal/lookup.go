// internal/postal/lookup.go

// Package postal resolves Japanese postal codes to addresses through the
// zipcloud-style lookup API. Used by the customer registration form to
// pre-fill address fields.
package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"office-portal/internal/common/config"
	"office-portal/internal/common/errors"
	portalhttp "office-portal/internal/common/http"
)

var postalCodePattern = regexp.MustCompile(`^\d{7}$`)

// Address is one resolved address for a postal code.
type Address struct {
	PostalCode string `json:"postalCode"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Town       string `json:"town"`
}

type Client struct {
	http    *portalhttp.Client
	baseURL string
}

func NewClient(cfg config.PostalConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		http:    portalhttp.NewClient(timeout),
		baseURL: cfg.BaseURL,
	}
}

// lookupResponse matches the zipcloud wire format.
type lookupResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Results []struct {
		Zipcode  string `json:"zipcode"`
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		Address3 string `json:"address3"`
	} `json:"results"`
}

// Lookup resolves a 7-digit postal code. An unknown code returns not-found;
// an unreachable backend returns a downstream error so the form can keep
// accepting manual input.
func (c *Client) Lookup(ctx context.Context, code string) ([]Address, error) {
	if !postalCodePattern.MatchString(code) {
		return nil, errors.NewValidation(errors.ErrCodeValidationFailed,
			"postal code must be exactly 7 digits")
	}

	reqURL := fmt.Sprintf("%s?zipcode=%s", c.baseURL, url.QueryEscape(code))
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return nil, errors.NewDownstream(errors.ErrCodeAddressLookupFailed,
			"postal code lookup unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewDownstream(errors.ErrCodeAddressLookupFailed,
			fmt.Sprintf("postal code lookup returned %d", resp.StatusCode), nil)
	}

	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.NewDownstream(errors.ErrCodeAddressLookupFailed,
			"decode lookup response", err)
	}
	if parsed.Status != 200 {
		return nil, errors.NewDownstream(errors.ErrCodeAddressLookupFailed,
			fmt.Sprintf("lookup rejected: %s", parsed.Message), nil)
	}
	if len(parsed.Results) == 0 {
		return nil, errors.NewNotFound("postal code", code)
	}

	addresses := make([]Address, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		addresses = append(addresses, Address{
			PostalCode: r.Zipcode,
			Prefecture: r.Address1,
			City:       r.Address2,
			Town:       r.Address3,
		})
	}
	return addresses, nil
}
