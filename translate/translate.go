// Package translate implements machine translation of catalog entries
// through the DeepL HTTP API.
//
// Outstanding (key, source text) pairs are sent in batches. Placeholders
// are protected from the translator by the placeholder codec: normally as
// inert XML tags the service is told to ignore, downgraded once per run
// to plain tokens if the service rejects the tag markup. Rate limits and
// server faults are retried with exponential backoff up to a fixed
// ceiling; every other failure aborts the run so no partial catalog is
// ever written.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/localekit/localekit/langmeta"
	"github.com/localekit/localekit/placeholder"
)

// DefaultBatchSize is the number of texts sent per request.
const DefaultBatchSize = 40

// DefaultMaxRetries is the ceiling on attempts for retryable failures.
const DefaultMaxRetries = 3

// Pair is one outstanding catalog entry: the dotted key and the source
// text to translate.
type Pair struct {
	Key  string
	Text string
}

// Options configures a Client.
type Options struct {
	// Endpoint is the translation service URL.
	Endpoint string
	// AuthKey is the service credential.
	AuthKey string
	// BatchSize is the number of texts per request. Default: 40.
	BatchSize int
	// MaxRetries is the attempt ceiling for rate limits and server
	// faults. Default: 3.
	MaxRetries int
	// RetryBaseDelay is the first backoff delay; it doubles per attempt.
	// Default: 1s.
	RetryBaseDelay time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	// Logf, when set, receives progress and retry messages.
	Logf func(format string, args ...any)
}

func (o *Options) effectiveBatchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o *Options) effectiveMaxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return DefaultMaxRetries
}

func (o *Options) effectiveBaseDelay() time.Duration {
	if o.RetryBaseDelay > 0 {
		return o.RetryBaseDelay
	}
	return time.Second
}

func (o *Options) log(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Client talks to the translation service. The tag-handling downgrade is
// client state: once the service rejects tag markup, every later batch in
// the run uses the fallback token encoding.
type Client struct {
	opts        Options
	client      *http.Client
	tagHandling bool
}

// New returns a Client with tag handling enabled.
func New(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{opts: opts, client: client, tagHandling: true}
}

// Translate sends all pairs in batches and returns the translations in
// the same order as submitted.
func (c *Client) Translate(ctx context.Context, pairs []Pair, sourceLocale, targetLocale string) ([]string, error) {
	sourceLang := langmeta.SourceLang(sourceLocale)
	targetLang := langmeta.TargetLang(targetLocale)

	size := c.opts.effectiveBatchSize()
	results := make([]string, 0, len(pairs))
	for start := 0; start < len(pairs); start += size {
		end := start + size
		if end > len(pairs) {
			end = len(pairs)
		}
		texts := make([]string, 0, end-start)
		for _, p := range pairs[start:end] {
			texts = append(texts, p.Text)
		}
		c.opts.log("translating batch %d-%d of %d (%s)", start+1, end, len(pairs), targetLang)

		translated, err := c.translateBatch(ctx, texts, sourceLang, targetLang)
		if err != nil {
			return nil, err
		}
		results = append(results, translated...)
	}
	return results, nil
}

// translateBatch issues one request for a batch, handling the retry and
// downgrade policy. Attempts are only consumed by rate limits and server
// faults; the tag-handling downgrade re-issues the same batch for free.
func (c *Client) translateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	maxRetries := c.opts.effectiveMaxRetries()
	baseDelay := c.opts.effectiveBaseDelay()

	attempt := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		status, body, err := c.post(ctx, texts, sourceLang, targetLang)
		if err != nil {
			return nil, fmt.Errorf("translation request failed: %w", err)
		}

		switch {
		case status == http.StatusOK:
			return c.parseResponse(body, len(texts))

		case c.tagHandling && isTagRejection(status, body):
			// The service could not parse our placeholder tags. Downgrade
			// to token encoding for the rest of the run and re-issue the
			// same batch without consuming an attempt.
			c.tagHandling = false
			c.opts.log("service rejected tag markup, falling back to token placeholders")
			continue

		case status == http.StatusTooManyRequests || status >= 500:
			attempt++
			if attempt >= maxRetries {
				return nil, fmt.Errorf("giving up after %d attempts: status %d: %s", attempt, status, truncate(body, 200))
			}
			delay := baseDelay << (attempt - 1)
			c.opts.log("status %d, retrying in %v (attempt %d/%d)", status, delay, attempt, maxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}

		default:
			return nil, fmt.Errorf("translation service returned status %d: %s", status, truncate(body, 200))
		}
	}
}

// post encodes the batch with the current placeholder encoding and issues
// one translation request.
func (c *Client) post(ctx context.Context, texts []string, sourceLang, targetLang string) (int, string, error) {
	form := url.Values{}
	form.Set("source_lang", sourceLang)
	form.Set("target_lang", targetLang)
	form.Set("preserve_formatting", "1")
	form.Set("split_sentences", "nonewlines")
	if c.tagHandling {
		form.Set("tag_handling", "xml")
		form.Set("ignore_tags", "ph")
	}
	for _, t := range texts {
		if c.tagHandling {
			form.Add("text", placeholder.Encode(t))
		} else {
			form.Add("text", placeholder.EncodeFallback(t))
		}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.opts.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.opts.AuthKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, string(body), nil
}

// parseResponse decodes the service reply and restores placeholders. A
// translation count differing from the request count is fatal: positional
// alignment with the submitted batch would be lost.
func (c *Client) parseResponse(body string, want int) ([]string, error) {
	var parsed struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("parsing translation response: %w", err)
	}
	if len(parsed.Translations) != want {
		return nil, fmt.Errorf("translation count mismatch: sent %d texts, got %d translations", want, len(parsed.Translations))
	}

	out := make([]string, len(parsed.Translations))
	for i, t := range parsed.Translations {
		out[i] = placeholder.Decode(t.Text)
	}
	return out, nil
}

// isTagRejection reports whether a response signals that the service
// could not parse the placeholder tag markup.
func isTagRejection(status int, body string) bool {
	return status == http.StatusBadRequest && strings.Contains(strings.ToLower(body), "tag")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
