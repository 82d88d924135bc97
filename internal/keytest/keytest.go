// Package keytest checks whether an API key is likely valid for a
// given provider. OpenAI and OpenRouter are probed with a single live
// request; Gemini and Anthropic are format-checked only, because
// neither exposes a cheap unauthenticated-safe probe endpoint. Each
// check is one round-trip with no retry.
package keytest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/kkarlsen/shade/internal/provider"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Result is the outcome of a key check. Err is a human-readable
// message when Valid is false; network and API failures are folded
// into it rather than returned as errors.
type Result struct {
	Valid bool   `json:"valid"`
	Err   string `json:"error,omitempty"`
}

// Tester dispatches key checks to the per-provider probes.
type Tester struct {
	httpClient        *http.Client
	openAIBaseURL     string
	openRouterBaseURL string
}

// Option configures a Tester.
type Option func(*Tester)

// WithHTTPClient overrides the HTTP client used for raw probes.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tester) { t.httpClient = c }
}

// WithOpenAIBaseURL points the OpenAI SDK at a different endpoint.
func WithOpenAIBaseURL(u string) Option {
	return func(t *Tester) { t.openAIBaseURL = u }
}

// WithOpenRouterBaseURL points the OpenRouter probe at a different
// endpoint.
func WithOpenRouterBaseURL(u string) Option {
	return func(t *Tester) { t.openRouterBaseURL = u }
}

// New returns a Tester with default endpoints.
func New(opts ...Option) *Tester {
	t := &Tester{
		httpClient:        &http.Client{},
		openRouterBaseURL: openRouterBaseURL,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Test checks key against the given provider.
func (t *Tester) Test(ctx context.Context, id provider.ID, key string) Result {
	switch id {
	case provider.OpenAI:
		return t.testOpenAI(ctx, key)
	case provider.OpenRouter:
		return t.testOpenRouter(ctx, key)
	case provider.Gemini:
		return t.testGemini(key)
	case provider.Anthropic:
		return t.testAnthropic(key)
	default:
		return Result{Err: fmt.Sprintf("unknown provider %q", id)}
	}
}

// testOpenAI lists the account's models through the vendor SDK. A
// successful listing proves both reachability and authentication.
func (t *Tester) testOpenAI(ctx context.Context, key string) Result {
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if t.openAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(t.openAIBaseURL))
	}

	client := openai.NewClient(opts...)
	if _, err := client.Models.List(ctx); err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			switch apierr.StatusCode {
			case http.StatusUnauthorized:
				return Result{Err: "Invalid API key. Please check your OpenAI key."}
			case http.StatusTooManyRequests:
				return Result{Err: "Rate limit exceeded or insufficient quota."}
			case http.StatusInternalServerError:
				return Result{Err: "OpenAI server error. Please try again later."}
			default:
				return Result{Err: fmt.Sprintf("OpenAI API error (%d)", apierr.StatusCode)}
			}
		}
		return Result{Err: fmt.Sprintf("could not reach OpenAI: %v", err)}
	}
	return Result{Valid: true}
}

// testOpenRouter fetches the public models endpoint with the key as a
// bearer token.
func (t *Tester) testOpenRouter(ctx context.Context, key string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.openRouterBaseURL+"/models", nil)
	if err != nil {
		return Result{Err: fmt.Sprintf("could not build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return Result{Err: fmt.Sprintf("could not reach OpenRouter: %v", err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Valid: true}
	case http.StatusUnauthorized:
		return Result{Err: "Invalid API key. Please check your OpenRouter key."}
	case http.StatusTooManyRequests:
		return Result{Err: "Rate limit exceeded or insufficient quota."}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{Err: fmt.Sprintf("OpenRouter API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}
}

// testGemini is a format check only; no live call is made.
func (t *Tester) testGemini(key string) Result {
	if provider.Get(provider.Gemini).ValidKey(key) {
		return Result{Valid: true}
	}
	return Result{Err: "API key looks too short for Gemini."}
}

// testAnthropic is a format check only; no live call is made.
func (t *Tester) testAnthropic(key string) Result {
	if provider.Get(provider.Anthropic).ValidKey(key) {
		return Result{Valid: true}
	}
	return Result{Err: "API key does not match the Anthropic sk-ant- format."}
}
