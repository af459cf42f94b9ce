package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jjenkins/countries/internal/model"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 10 << 20
)

// countryJSON represents a country in the restcountries v2 response
type countryJSON struct {
	Name       string `json:"name"`
	Capital    string `json:"capital"`
	Region     string `json:"region"`
	Population int64  `json:"population"`
	Flag       string `json:"flag"`
	Currencies []struct {
		Code   string `json:"code"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
}

// CountriesClient fetches country metadata from the restcountries API
type CountriesClient struct {
	client *http.Client
	url    string
}

// NewCountriesClient creates a client for the given endpoint. A zero timeout
// means DefaultTimeout.
func NewCountriesClient(endpoint string, timeout time.Duration) *CountriesClient {
	return &CountriesClient{client: newHTTPClient(timeout), url: endpoint}
}

// FetchCountries retrieves the full country list
func (c *CountriesClient) FetchCountries(ctx context.Context) ([]model.ExternalCountry, error) {
	body, err := fetch(ctx, c.client, c.url)
	if err != nil {
		return nil, &UpstreamFetchError{Source: SourceMetadata, API: apiHost(c.url), Err: err}
	}

	var resp []countryJSON
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UpstreamFetchError{
			Source: SourceMetadata,
			API:    apiHost(c.url),
			Err:    fmt.Errorf("failed to parse countries response: %w", err),
		}
	}

	countries := make([]model.ExternalCountry, len(resp))
	for i, r := range resp {
		countries[i] = model.ExternalCountry{
			Name:       r.Name,
			Capital:    r.Capital,
			Region:     r.Region,
			Population: r.Population,
			Flag:       r.Flag,
		}
		for _, cur := range r.Currencies {
			countries[i].Currencies = append(countries[i].Currencies, model.ExternalCurrency{
				Code:   cur.Code,
				Name:   cur.Name,
				Symbol: cur.Symbol,
			})
		}
	}

	return countries, nil
}

// RatesClient fetches exchange rates against the rate source's base currency
type RatesClient struct {
	client *http.Client
	url    string
}

// NewRatesClient creates a client for the given endpoint. A zero timeout
// means DefaultTimeout.
func NewRatesClient(endpoint string, timeout time.Duration) *RatesClient {
	return &RatesClient{client: newHTTPClient(timeout), url: endpoint}
}

// FetchRates retrieves the currency code -> rate table
func (c *RatesClient) FetchRates(ctx context.Context) (map[string]float64, error) {
	body, err := fetch(ctx, c.client, c.url)
	if err == nil {
		var rates map[string]float64
		if rates, err = parseRates(body); err == nil {
			return rates, nil
		}
	}
	return nil, &UpstreamFetchError{Source: SourceRates, API: apiHost(c.url), Err: err}
}

// parseRates extracts numeric members of the "rates" object. A "result"
// field other than "success" means the source rejected the request.
func parseRates(body []byte) (map[string]float64, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("failed to parse rates response: invalid JSON")
	}

	if result := gjson.GetBytes(body, "result"); result.Exists() && result.String() != "success" {
		return nil, fmt.Errorf("rate source returned result %q", result.String())
	}

	ratesObj := gjson.GetBytes(body, "rates")
	if !ratesObj.IsObject() {
		return nil, errors.New("rates response has no rates object")
	}

	rates := make(map[string]float64)
	ratesObj.ForEach(func(code, rate gjson.Result) bool {
		if rate.Type == gjson.Number {
			rates[code.String()] = rate.Float()
		}
		return true
	})

	return rates, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// fetch performs a single HTTP GET; any non-2xx status is an error
func fetch(ctx context.Context, client *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

func apiHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Hostname()
}
