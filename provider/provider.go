// Package provider constructs model.Model implementations by name so the CLI
// and configuration can select a vendor without importing SDK packages.
package provider

import (
	"errors"
	"fmt"
	"strings"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/agentpair/model"
	"github.com/hupe1980/agentpair/model/anthropic"
	"github.com/hupe1980/agentpair/model/openai"
)

// Provider names accepted by New.
const (
	Anthropic = "anthropic"
	OpenAI    = "openai"
)

// ErrUnknownProvider is returned by New for an unsupported provider name.
var ErrUnknownProvider = errors.New("unknown provider")

// Names returns the supported provider names.
func Names() []string { return []string{Anthropic, OpenAI} }

// Options configure provider construction. Zero values fall back to each
// adapter's defaults.
type Options struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature *float64
	MaxTokens   int
}

// New returns the model.Model for name.
func New(name string, optFns ...func(o *Options)) (model.Model, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Anthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if opts.Model != "" {
				o.Model = sdkanthropic.Model(opts.Model)
			}
			o.APIKey = opts.APIKey
			o.BaseURL = opts.BaseURL
			if opts.Temperature != nil {
				o.Temperature = *opts.Temperature
			}
			if opts.MaxTokens > 0 {
				o.MaxTokens = int64(opts.MaxTokens)
			}
		}), nil
	case OpenAI:
		return openai.NewModel(func(o *openai.Options) {
			if opts.Model != "" {
				o.Model = opts.Model
			}
			o.APIKey = opts.APIKey
			o.BaseURL = opts.BaseURL
			if opts.Temperature != nil {
				o.Temperature = *opts.Temperature
			}
			if opts.MaxTokens > 0 {
				o.MaxCompletionTokens = int64(opts.MaxTokens)
			}
		}), nil
	default:
		return nil, fmt.Errorf("%w %q, valid providers: %s", ErrUnknownProvider, name, strings.Join(Names(), ", "))
	}
}
