package entity

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

	"github.com/parlex-ai/parlex/core"
)

// DucklingOptions configures the system entity extractor.
type DucklingOptions struct {
	// Enabled gates extraction; a disabled extractor returns no entities and
	// no error, keeping the pipeline shape uniform.
	Enabled bool

	// URL is the base address of the Duckling-compatible service.
	URL string

	// Timeout bounds one parse request.
	Timeout time.Duration

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Duckling extracts system entities (dates, times, numbers, measurements) by
// calling a Duckling-compatible remote service's /parse endpoint.
type Duckling struct {
	opts   DucklingOptions
	client *http.Client
}

var _ core.SystemEntityExtractor = (*Duckling)(nil)

// NewDuckling creates the system entity extractor.
func NewDuckling(optFns ...func(o *DucklingOptions)) *Duckling {
	opts := DucklingOptions{
		URL:     "http://localhost:8000",
		Timeout: 5 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Duckling{opts: opts, client: client}
}

// Enabled reports whether the extractor will call the remote service.
func (d *Duckling) Enabled() bool { return d.opts.Enabled }

// ducklingDimension is one span in a Duckling parse response. The value
// payload varies per dimension, so it is decoded loosely.
type ducklingDimension struct {
	Body  string `json:"body"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Dim   string `json:"dim"`
	Value struct {
		Value interface{} `json:"value"`
		Unit  string      `json:"unit"`
	} `json:"value"`
}

// Extract implements core.SystemEntityExtractor. The language code is mapped
// to a Duckling locale ("en" -> "en_US" style best effort).
func (d *Duckling) Extract(ctx context.Context, text, lang string) ([]core.Entity, error) {
	if !d.opts.Enabled {
		return nil, nil
	}

	form := url.Values{
		"text":   {text},
		"locale": {locale(lang)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.opts.URL+"/parse", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build duckling request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckling request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("duckling returned status %d: %s", resp.StatusCode, string(body))
	}

	var dims []ducklingDimension
	if err := json.NewDecoder(resp.Body).Decode(&dims); err != nil {
		return nil, fmt.Errorf("failed to parse duckling response: %w", err)
	}

	entities := make([]core.Entity, 0, len(dims))
	for _, dim := range dims {
		entities = append(entities, core.Entity{
			Kind:       core.EntityKindSystem,
			Name:       dim.Dim,
			Value:      stringifyValue(dim.Value.Value, dim.Body),
			Start:      dim.Start,
			End:        dim.End,
			Confidence: 1,
			Unit:       dim.Value.Unit,
		})
	}

	return entities, nil
}

// locale maps an ISO 639-1 code to a Duckling locale identifier.
func locale(lang string) string {
	switch strings.ToLower(lang) {
	case "", "en":
		return "en_US"
	case "fr":
		return "fr_FR"
	case "de":
		return "de_DE"
	case "es":
		return "es_ES"
	case "pt":
		return "pt_PT"
	case "ja":
		return "ja_JP"
	default:
		l := strings.ToLower(lang)
		return l + "_" + strings.ToUpper(l)
	}
}

// stringifyValue renders Duckling's heterogenous value payloads; the raw body
// is the fallback.
func stringifyValue(v interface{}, body string) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return body
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return body
		}
		return string(data)
	}
}
