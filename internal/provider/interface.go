package provider

import (
	"context"
)

// SourceKind identifies the kind of upstream that produced a trailer record
type SourceKind string

const (
	SourceMetadata    SourceKind = "metadata"
	SourceVideoSearch SourceKind = "video_search"
)

// Source is the interface that all trailer providers must implement
type Source interface {
	// Identification
	Name() string
	Description() string

	// Capability discovery
	Capabilities() ProviderCapabilities

	// Configuration
	Configure(config map[string]interface{}) error
	ConfigSchema() ConfigSchema

	// Data fetching
	Trailers(ctx context.Context, query SearchQuery) ([]TrailerRecord, error)
}

// ProviderCapabilities describes what a provider can do
type ProviderCapabilities struct {
	Kind         SourceKind // Which kind of records the provider emits
	RequiresAuth bool       // Whether authentication is required
	Priority     int        // Default priority for this provider (higher = merged first)
}

// ConfigSchema describes the configuration requirements for a provider
type ConfigSchema struct {
	Fields []ConfigField
}

// ConfigField describes a single configuration field
type ConfigField struct {
	Name        string          // Field name
	DisplayName string          // Human-readable name
	Type        ConfigFieldType // Field type
	Required    bool            // Whether this field is required
	Default     interface{}     // Default value
	Description string          // Help text
	Sensitive   bool            // Whether this contains sensitive data (for masking)
}

// ConfigFieldType represents the type of a configuration field
type ConfigFieldType string

const (
	ConfigFieldTypeInt      ConfigFieldType = "int"
	ConfigFieldTypeString   ConfigFieldType = "string"
	ConfigFieldTypeURL      ConfigFieldType = "url"
	ConfigFieldTypePassword ConfigFieldType = "password"
)
