package llm

import (
	"fmt"
	"sort"

	"cvscreen/internal/config"
	"cvscreen/internal/port"
)

// ProviderFactory creates a TextGenerator from a provider config.
type ProviderFactory func(cfg *config.LLMProviderConfig) (port.TextGenerator, error)

// registry of provider factories, populated via RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewGenerator creates a TextGenerator from a provider config using the registered factory.
func NewGenerator(cfg *config.LLMProviderConfig) (port.TextGenerator, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the generator chain described by cfg. A single configured provider is
// returned as is; two or more are wrapped in a FallbackGenerator in primary, secondary,
// tertiary order.
func NewFromConfig(cfg *config.LLMConfig) (port.TextGenerator, error) {
	tiers := []*config.LLMProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig(), cfg.TertiaryConfig()}

	var generators []port.TextGenerator
	var names []string
	for _, tier := range tiers {
		if tier == nil {
			continue
		}
		gen, err := NewGenerator(tier)
		if err != nil {
			return nil, fmt.Errorf("creating %s generator: %w", tier.Provider, err)
		}
		generators = append(generators, gen)
		names = append(names, tier.Provider)
	}

	if len(generators) == 1 {
		return generators[0], nil
	}
	return NewFallbackGenerator(generators, names), nil
}

// RegisteredProviders lists the provider names known to the registry.
func RegisteredProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
