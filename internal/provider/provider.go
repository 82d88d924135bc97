// Package provider defines the closed set of AI API vendors the
// assistant can talk to, together with the per-vendor data the rest of
// the application keys off: allowed models, the default model, and the
// expected API key format.
package provider

import (
	"regexp"
	"strings"
)

// ID identifies a supported provider.
type ID string

const (
	OpenAI     ID = "openai"
	Gemini     ID = "gemini"
	Anthropic  ID = "anthropic"
	OpenRouter ID = "openrouter"
)

// Default is the provider used when a stored or supplied value is
// invalid or missing.
const Default = Gemini

// Info carries the static data for one provider.
type Info struct {
	ID           ID
	Name         string
	Models       []string
	DefaultModel string

	keyRe     *regexp.Regexp
	minKeyLen int
}

var (
	openaiKeyRe     = regexp.MustCompile(`^sk-[A-Za-z0-9]{32,}$`)
	anthropicKeyRe  = regexp.MustCompile(`^sk-ant-[A-Za-z0-9]{32,}$`)
	openrouterKeyRe = regexp.MustCompile(`^sk-or-[A-Za-z0-9]{32,}$`)
)

// Registration order doubles as the display order in the settings UI.
var all = []Info{
	{
		ID:           OpenAI,
		Name:         "OpenAI",
		Models:       []string{"gpt-4o", "gpt-4o-mini"},
		DefaultModel: "gpt-4o",
		keyRe:        openaiKeyRe,
	},
	{
		ID:           Gemini,
		Name:         "Google Gemini",
		Models:       []string{"gemini-1.5-pro", "gemini-2.0-flash"},
		DefaultModel: "gemini-2.0-flash",
		minKeyLen:    10,
	},
	{
		ID:   Anthropic,
		Name: "Anthropic (Claude)",
		Models: []string{
			"claude-3-7-sonnet-20250219",
			"claude-3-5-sonnet-20241022",
			"claude-3-opus-20240229",
		},
		DefaultModel: "claude-3-5-sonnet-20241022",
		keyRe:        anthropicKeyRe,
	},
	{
		ID:   OpenRouter,
		Name: "OpenRouter",
		Models: []string{
			"openai/gpt-4o",
			"openai/gpt-4o-mini",
			"anthropic/claude-3.5-sonnet",
			"google/gemini-2.0-flash-001",
			"deepseek/deepseek-chat",
		},
		DefaultModel: "openai/gpt-4o",
		keyRe:        openrouterKeyRe,
	},
}

var byID = func() map[ID]Info {
	m := make(map[ID]Info, len(all))
	for _, p := range all {
		m[p.ID] = p
	}
	return m
}()

// All returns every provider in registration order.
func All() []Info {
	out := make([]Info, len(all))
	copy(out, all)
	return out
}

// Get returns the Info for id. Unknown ids fall back to the default
// provider so callers always get usable model data.
func Get(id ID) Info {
	if p, ok := byID[id]; ok {
		return p
	}
	return byID[Default]
}

// Parse maps a user- or file-supplied string onto a provider ID.
func Parse(s string) (ID, bool) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	_, ok := byID[id]
	return id, ok
}

// InferFromKey guesses a provider from an API key prefix. The order
// matters: the anthropic and openrouter prefixes both start with
// "sk-", so they are checked before the plain openai prefix.
func InferFromKey(key string) ID {
	key = strings.TrimSpace(key)
	switch {
	case strings.HasPrefix(key, "sk-ant-"):
		return Anthropic
	case strings.HasPrefix(key, "sk-or-"):
		return OpenRouter
	case strings.HasPrefix(key, "sk-"):
		return OpenAI
	default:
		return Gemini
	}
}

// ValidKey reports whether key matches this provider's expected
// format. Gemini keys have no published shape, so only a minimum
// length is enforced there.
func (p Info) ValidKey(key string) bool {
	key = strings.TrimSpace(key)
	if p.keyRe != nil {
		return p.keyRe.MatchString(key)
	}
	return len(key) >= p.minKeyLen
}

// Allows reports whether model is in this provider's allowed list.
func (p Info) Allows(model string) bool {
	for _, m := range p.Models {
		if m == model {
			return true
		}
	}
	return false
}
