package provider

import (
	"fmt"
)

// ValidateCapabilities checks if provider capabilities are valid and consistent
func ValidateCapabilities(caps ProviderCapabilities) error {
	switch caps.Kind {
	case SourceMetadata, SourceVideoSearch:
	case "":
		return fmt.Errorf("provider must declare a source kind")
	default:
		return fmt.Errorf("unknown source kind %q", caps.Kind)
	}

	if caps.Priority < 0 {
		return fmt.Errorf("provider priority must not be negative")
	}

	return nil
}
