package app

import (
	"github.com/stacklok/string-analyzer-server/internal/service"
	"github.com/stacklok/string-analyzer-server/internal/telemetry"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// StringService provides the string analysis business logic
	StringService service.StringService

	// Telemetry owns the tracer and meter providers (optional)
	Telemetry *telemetry.Telemetry
}
