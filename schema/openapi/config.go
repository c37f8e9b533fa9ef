package openapi

import "strings"

type generatorConfig struct {
	openAPIVersion string
	info           openapiInfo
	rootComponent  string
	discriminator  string
}

type openapiInfo struct {
	Title       string
	Version     string
	Description string
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		openAPIVersion: "3.0.3",
		info: openapiInfo{
			Title:   "Variant Schema",
			Version: "1.0.0",
		},
		rootComponent: "Variant",
		discriminator: "type",
	}
}

// GeneratorOption configures the OpenAPI generator behaviour.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion overrides the OpenAPI version string (default: 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version == "" {
			return
		}
		cfg.openAPIVersion = version
	}
}

// WithInfo overrides the document info block.
func WithInfo(title, version, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if strings.TrimSpace(title) != "" {
			cfg.info.Title = title
		}
		if strings.TrimSpace(version) != "" {
			cfg.info.Version = version
		}
		cfg.info.Description = description
	}
}

// WithRootComponent names the component holding the tagged-union schema
// (default: Variant).
func WithRootComponent(name string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if strings.TrimSpace(name) == "" {
			return
		}
		cfg.rootComponent = name
	}
}

// WithDiscriminator sets the discriminator property name (default: type).
func WithDiscriminator(property string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if strings.TrimSpace(property) == "" {
			return
		}
		cfg.discriminator = property
	}
}

func applyGeneratorOptions(opts []GeneratorOption) generatorConfig {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
