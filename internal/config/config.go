// Package config owns the application's persisted settings: provider
// and model selection, API key, window opacity, and the optional
// language preference. The on-disk JSON file is the source of truth;
// every operation is a read-modify-write over it. Failures never
// escape this package: reads fall back to defaults and writes are
// logged and dropped.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kkarlsen/shade/internal/keytest"
	"github.com/kkarlsen/shade/internal/langdetect"
	"github.com/kkarlsen/shade/internal/provider"
)

// FileName is the settings file kept inside the store directory.
const FileName = "config.json"

const (
	minOpacity = 0.1
	maxOpacity = 1.0
)

// Config is the persisted settings record. Unknown keys present in
// the file are carried through saves untouched but are not part of
// this struct.
type Config struct {
	APIKey          string  `mapstructure:"api_key" json:"api_key"`
	APIProvider     string  `mapstructure:"api_provider" json:"api_provider"`
	ExtractionModel string  `mapstructure:"extraction_model" json:"extraction_model"`
	SolutionModel   string  `mapstructure:"solution_model" json:"solution_model"`
	DebuggingModel  string  `mapstructure:"debugging_model" json:"debugging_model"`
	Language        string  `mapstructure:"language" json:"language,omitempty"`
	Opacity         float64 `mapstructure:"opacity" json:"opacity"`
}

// Defaults returns the seed configuration used when no file exists or
// the file cannot be read.
func Defaults() Config {
	p := provider.Get(provider.Default)
	return Config{
		APIProvider:     string(p.ID),
		ExtractionModel: p.DefaultModel,
		SolutionModel:   p.DefaultModel,
		DebuggingModel:  p.DefaultModel,
		Opacity:         maxOpacity,
	}
}

// Update is a partial configuration change. Nil fields are left
// unchanged. A non-nil empty Language clears the stored preference,
// reverting to auto-detection.
type Update struct {
	APIKey          *string
	APIProvider     *string
	ExtractionModel *string
	SolutionModel   *string
	DebuggingModel  *string
	Language        *string
	Opacity         *float64
}

// Store persists the configuration to a single JSON file and tells
// registered observers when a non-cosmetic field changes.
type Store struct {
	dir    string
	log    *logrus.Logger
	tester *keytest.Tester

	mu           sync.Mutex
	observers    map[int]func(Config)
	nextObserver int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger overrides the default logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithTester overrides the API key tester.
func WithTester(t *keytest.Tester) Option {
	return func(s *Store) { s.tester = t }
}

// NewStore creates a store rooted at dir. The directory is created on
// the first save.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:       dir,
		log:       logrus.StandardLogger(),
		tester:    keytest.New(),
		observers: make(map[int]func(Config)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultDir returns the per-user settings directory, falling back to
// the working directory when the host provides none.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Join(base, "shade")
}

// Path returns the full path of the settings file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// OnChange registers an observer called with the full new config
// after every material update. Opacity-only changes are suppressed so
// downstream clients are not reinitialized for a cosmetic tweak. The
// returned function unregisters the observer.
func (s *Store) OnChange(fn func(Config)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Load reads and sanitizes the settings file. A missing file is
// created with defaults; an unreadable or corrupt file yields
// defaults without touching disk.
func (s *Store) Load() Config {
	v := viper.New()
	v.SetConfigFile(s.Path())

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Defaults()
			s.Save(cfg)
			return cfg
		}
		s.log.WithError(err).Warn("could not read config file, using defaults")
		return Defaults()
	}

	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		s.log.WithError(err).Warn("could not parse config file, using defaults")
		return Defaults()
	}

	return s.sanitize(cfg)
}

// sanitize coerces the provider and model fields to valid values.
func (s *Store) sanitize(cfg Config) Config {
	id, ok := provider.Parse(cfg.APIProvider)
	if !ok {
		s.log.Warnf("invalid provider %q in config, falling back to %s", cfg.APIProvider, provider.Default)
		id = provider.Default
	}
	cfg.APIProvider = string(id)
	cfg.ExtractionModel = s.SanitizeModel(cfg.ExtractionModel, id)
	cfg.SolutionModel = s.SanitizeModel(cfg.SolutionModel, id)
	cfg.DebuggingModel = s.SanitizeModel(cfg.DebuggingModel, id)
	return cfg
}

// SanitizeModel returns model unchanged when it is allowed for the
// provider, otherwise the provider's default model.
func (s *Store) SanitizeModel(model string, id provider.ID) string {
	p := provider.Get(id)
	if p.Allows(model) {
		return model
	}
	s.log.Warnf("model %q is not available for %s, using %s", model, p.ID, p.DefaultModel)
	return p.DefaultModel
}

// Save writes cfg over the settings file, keeping any unknown keys
// the file already holds. Failures are logged, not returned.
func (s *Store) Save(cfg Config) {
	if err := s.write(cfg); err != nil {
		s.log.WithError(err).Error("could not save config file")
	}
}

func (s *Store) write(cfg Config) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	settings := s.fileSettings()
	settings["api_key"] = cfg.APIKey
	settings["api_provider"] = cfg.APIProvider
	settings["extraction_model"] = cfg.ExtractionModel
	settings["solution_model"] = cfg.SolutionModel
	settings["debugging_model"] = cfg.DebuggingModel
	settings["opacity"] = cfg.Opacity
	if cfg.Language != "" {
		settings["language"] = cfg.Language
	} else {
		delete(settings, "language")
	}

	out := viper.New()
	if err := out.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("merge settings: %w", err)
	}
	return out.WriteConfigAs(s.Path())
}

// fileSettings returns the raw key set currently on disk, so unknown
// keys survive the read-merge-write cycle.
func (s *Store) fileSettings() map[string]any {
	v := viper.New()
	v.SetConfigFile(s.Path())
	if err := v.ReadInConfig(); err != nil {
		return map[string]any{}
	}
	return v.AllSettings()
}

// Update applies a partial change on top of the current config,
// persists the result, and notifies observers unless only the opacity
// changed. It never fails; broken state falls back to defaults.
func (s *Store) Update(u Update) Config {
	cur := s.Load()
	next := cur

	resolved := provider.ID(cur.APIProvider)
	switch {
	case u.APIProvider != nil:
		if p, ok := provider.Parse(*u.APIProvider); ok {
			resolved = p
		} else {
			s.log.Warnf("invalid provider %q, falling back to %s", *u.APIProvider, provider.Default)
			resolved = provider.Default
		}
	case u.APIKey != nil:
		// A fresh key without an explicit provider: infer it from the
		// key prefix so the UI can skip a provider picker.
		resolved = provider.InferFromKey(*u.APIKey)
		s.log.Infof("inferred provider %s from the API key prefix", resolved)
	}

	if string(resolved) != cur.APIProvider {
		// Model selections are only meaningful within one provider.
		def := provider.Get(resolved).DefaultModel
		next.APIProvider = string(resolved)
		next.ExtractionModel = def
		next.SolutionModel = def
		next.DebuggingModel = def
	}

	if u.APIKey != nil {
		next.APIKey = *u.APIKey
	}
	if u.ExtractionModel != nil {
		next.ExtractionModel = s.SanitizeModel(*u.ExtractionModel, resolved)
	}
	if u.SolutionModel != nil {
		next.SolutionModel = s.SanitizeModel(*u.SolutionModel, resolved)
	}
	if u.DebuggingModel != nil {
		next.DebuggingModel = s.SanitizeModel(*u.DebuggingModel, resolved)
	}
	if u.Language != nil {
		next.Language = strings.TrimSpace(*u.Language)
	}
	if u.Opacity != nil {
		next.Opacity = clampOpacity(*u.Opacity)
	}

	s.Save(next)

	if materialChange(cur, next) {
		s.notify(next)
	}
	return next
}

// materialChange reports whether anything other than opacity differs.
func materialChange(old, new Config) bool {
	old.Opacity = 0
	new.Opacity = 0
	return old != new
}

func (s *Store) notify(cfg Config) {
	s.mu.Lock()
	fns := make([]func(Config), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Observers run outside the lock; they may call back into the
	// store.
	for _, fn := range fns {
		fn(cfg)
	}
}

// HasAPIKey reports whether a non-blank key is stored.
func (s *Store) HasAPIKey() bool {
	return strings.TrimSpace(s.Load().APIKey) != ""
}

// ValidAPIKeyFormat checks key against the provider's expected shape.
// An empty providerName infers the provider from the key prefix. No
// network traffic.
func (s *Store) ValidAPIKeyFormat(key, providerName string) bool {
	return provider.Get(s.resolveProvider(providerName, key)).ValidKey(key)
}

// TestAPIKey performs the provider's reachability/authentication
// probe. An empty providerName infers the provider from the key
// prefix.
func (s *Store) TestAPIKey(ctx context.Context, key, providerName string) keytest.Result {
	return s.tester.Test(ctx, s.resolveProvider(providerName, key), key)
}

func (s *Store) resolveProvider(name, key string) provider.ID {
	if name != "" {
		if p, ok := provider.Parse(name); ok {
			return p
		}
	}
	return provider.InferFromKey(key)
}

// Opacity returns the stored window opacity clamped to the valid
// range.
func (s *Store) Opacity() float64 {
	return clampOpacity(s.Load().Opacity)
}

// SetOpacity persists a clamped opacity value.
func (s *Store) SetOpacity(v float64) {
	s.Update(Update{Opacity: &v})
}

func clampOpacity(v float64) float64 {
	if v < minOpacity {
		return minOpacity
	}
	if v > maxOpacity {
		return maxOpacity
	}
	return v
}

// Language returns the stored preference when one is set, otherwise
// the best guess for the given filename and/or content.
func (s *Store) Language(filename, content string) string {
	if l := s.Load().Language; l != "" {
		return l
	}
	return langdetect.Detect(filename, content)
}

// SetLanguage stores an explicit language preference.
func (s *Store) SetLanguage(lang string) {
	s.Update(Update{Language: &lang})
}

// ClearLanguage removes the stored preference, reverting to
// auto-detection.
func (s *Store) ClearLanguage() {
	s.SetLanguage("")
}

// AvailableProviders returns the fixed provider catalogue.
func (s *Store) AvailableProviders() []provider.Info {
	return provider.All()
}

// AvailableModels returns the model list for a provider name, or nil
// when the name is unknown.
func (s *Store) AvailableModels(name string) []string {
	p, ok := provider.Parse(name)
	if !ok {
		return nil
	}
	return provider.Get(p).Models
}
