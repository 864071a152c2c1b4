// internal/adapters/gemini/client.go
package gemini

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"toilanguoisaigon/internal/adapters/observability"
	"toilanguoisaigon/internal/domain"
)

// Client talks to the generateContent endpoint with the maps grounding
// tool enabled and a retrieval bias on the city center. The rate limiter
// enforces the minimum gap between successive calls; the batch runs one
// call at a time by design.
type Client struct {
	base    string
	model   string
	key     string
	hc      *http.Client
	rl      *rate.Limiter
	retries int
	biasLat float64
	biasLng float64
}

type Options struct {
	CallDelay time.Duration // minimum gap between calls; default 2s
	Timeout   time.Duration // per-request; default 60s
	Retries   int           // extra attempts on 429/5xx; default 0 (skip on first failure)
	BiasLat   float64
	BiasLng   float64
}

func New(base, model, key string, o Options) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: API key is required", domain.ErrMissingConfig)
	}
	if o.CallDelay <= 0 {
		o.CallDelay = 2 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		model:   model,
		key:     key,
		hc:      &http.Client{Timeout: o.Timeout},
		rl:      rate.NewLimiter(rate.Every(o.CallDelay), 1),
		retries: o.Retries,
		biasLat: o.BiasLat,
		biasLng: o.BiasLng,
	}, nil
}

/********** wire types **********/

type genRequest struct {
	Contents         []content   `json:"contents"`
	Tools            []tool      `json:"tools"`
	ToolConfig       *toolConfig `json:"toolConfig,omitempty"`
	GenerationConfig genConfig   `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type tool struct {
	GoogleMaps struct{} `json:"googleMaps"`
}

type toolConfig struct {
	RetrievalConfig retrievalConfig `json:"retrievalConfig"`
}

type retrievalConfig struct {
	LatLng latLng `json:"latLng"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type genConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type genResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content struct {
		Parts []part `json:"parts"`
	} `json:"content"`
	GroundingMetadata *struct {
		GroundingChunks []struct {
			Maps *struct {
				Title   string `json:"title"`
				URI     string `json:"uri"`
				PlaceID string `json:"placeId"`
			} `json:"maps"`
		} `json:"groundingChunks"`
	} `json:"groundingMetadata"`
}

/********** public API **********/

// Generate runs one grounded generation. Non-2xx responses and timeouts
// both surface as domain.ErrProvider so the orchestrator skips the query
// and moves on.
func (c *Client) Generate(ctx context.Context, req domain.GroundingRequest) (domain.GroundingResult, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.GroundingResult{}, err
	}

	body, err := json.Marshal(genRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		Tools:    []tool{{}},
		ToolConfig: &toolConfig{
			RetrievalConfig: retrievalConfig{LatLng: latLng{Latitude: c.biasLat, Longitude: c.biasLng}},
		},
		GenerationConfig: genConfig{Temperature: req.Temperature, MaxOutputTokens: req.MaxTokens},
	})
	if err != nil {
		return domain.GroundingResult{}, err
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		return domain.GroundingResult{}, err
	}
	return extractResult(resp)
}

/********** internals **********/

func (c *Client) url() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.base, c.model, c.key)
}

// post sends the request with up to c.retries extra attempts on 429 and
// transient 5xx, honoring Retry-After when provided. The default is zero
// retries: one failure skips the query.
func (c *Client) post(ctx context.Context, body []byte) (*genResponse, error) {
	var lastErr error
	attempts := c.retries + 1

	for i := 0; i < attempts; i++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			observability.ObserveProvider(c.model, 0, time.Since(start))
			// Timeouts and network failures are provider errors, same as
			// a bad status.
			lastErr = fmt.Errorf("%w: %v", domain.ErrProvider, err)
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return nil, lastErr
		}

		observability.ObserveProvider(c.model, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			var out genResponse
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: decode response: %v", domain.ErrProvider, err)
			}
			return &out, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := retryAfter(resp)
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: status %d: %s", domain.ErrProvider, resp.StatusCode, strings.TrimSpace(string(b)))
			if i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProvider, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return nil, lastErr
}

// extractResult concatenates all text parts (the provider may split a
// response) and collects maps grounding chunks. The "places/" prefix is
// stripped so place ids compare directly against the store.
func extractResult(resp *genResponse) (domain.GroundingResult, error) {
	if len(resp.Candidates) == 0 {
		return domain.GroundingResult{}, fmt.Errorf("%w: no candidates in response", domain.ErrProvider)
	}
	cand := resp.Candidates[0]

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}

	var cits []domain.MapsCitation
	if cand.GroundingMetadata != nil {
		for _, ch := range cand.GroundingMetadata.GroundingChunks {
			if ch.Maps == nil {
				continue
			}
			cits = append(cits, domain.MapsCitation{
				Title:   ch.Maps.Title,
				URI:     ch.Maps.URI,
				PlaceID: strings.TrimPrefix(ch.Maps.PlaceID, "places/"),
			})
		}
	}
	return domain.GroundingResult{Text: sb.String(), Citations: cits}, nil
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay with up to +50% jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
