package keytest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kkarlsen/shade/internal/provider"
)

func TestOpenRouterStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantValid bool
		wantErr   string
	}{
		{"ok", http.StatusOK, true, ""},
		{"unauthorized", http.StatusUnauthorized, false, "Invalid API key"},
		{"rate limited", http.StatusTooManyRequests, false, "Rate limit"},
		{"server error", http.StatusBadGateway, false, "OpenRouter API error (502)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/models" {
					t.Errorf("expected path /models, got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("expected bearer auth header, got %q", got)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			tester := New(WithOpenRouterBaseURL(server.URL))
			res := tester.Test(context.Background(), provider.OpenRouter, "test-key")

			if res.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", res.Valid, tt.wantValid)
			}
			if tt.wantErr != "" && !strings.Contains(res.Err, tt.wantErr) {
				t.Errorf("Err = %q, want it to contain %q", res.Err, tt.wantErr)
			}
		})
	}
}

func TestOpenRouterUnreachable(t *testing.T) {
	tester := New(WithOpenRouterBaseURL("http://127.0.0.1:1"))
	res := tester.Test(context.Background(), provider.OpenRouter, "test-key")
	if res.Valid {
		t.Error("expected invalid result for unreachable endpoint")
	}
	if !strings.Contains(res.Err, "could not reach OpenRouter") {
		t.Errorf("Err = %q, want a reachability message", res.Err)
	}
}

func TestOpenAIModelList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models") {
			t.Errorf("expected a models listing, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o","object":"model","created":0,"owned_by":"openai"}]}`))
	}))
	defer server.Close()

	tester := New(WithOpenAIBaseURL(server.URL + "/"))
	res := tester.Test(context.Background(), provider.OpenAI, "sk-"+strings.Repeat("a", 40))
	if !res.Valid {
		t.Errorf("expected valid result, got error %q", res.Err)
	}
}

func TestOpenAIUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	tester := New(WithOpenAIBaseURL(server.URL + "/"))
	res := tester.Test(context.Background(), provider.OpenAI, "sk-bad")
	if res.Valid {
		t.Error("expected invalid result for 401")
	}
	if !strings.Contains(res.Err, "Invalid API key") {
		t.Errorf("Err = %q, want invalid-key message", res.Err)
	}
}

func TestGeminiFormatOnly(t *testing.T) {
	tester := New()

	if res := tester.Test(context.Background(), provider.Gemini, "AIzaSy12345"); !res.Valid {
		t.Errorf("expected valid result, got %q", res.Err)
	}
	if res := tester.Test(context.Background(), provider.Gemini, "short"); res.Valid {
		t.Error("expected invalid result for short gemini key")
	}
}

func TestAnthropicFormatOnly(t *testing.T) {
	tester := New()

	good := "sk-ant-" + strings.Repeat("a", 40)
	if res := tester.Test(context.Background(), provider.Anthropic, good); !res.Valid {
		t.Errorf("expected valid result, got %q", res.Err)
	}
	if res := tester.Test(context.Background(), provider.Anthropic, "sk-ant-short"); res.Valid {
		t.Error("expected invalid result for malformed anthropic key")
	}
}
