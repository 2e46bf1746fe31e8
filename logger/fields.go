package logger

import (
	"go.uber.org/zap"
)

// Standard field names for structured logging.
const (
	// Components
	FieldComponent = "component"

	// Generation
	FieldFile        = "file"
	FieldDeclaration = "declaration"
	FieldKind        = "kind"
	FieldAPI         = "api"
	FieldOutputDir   = "output_dir"
	FieldIRPath      = "ir_path"
	FieldDependency  = "dependency"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount = "count"

	// Network (websocket runtime)
	FieldAddress       = "address"
	FieldCorrelationID = "correlation_id"
	FieldOperation     = "operation"
)

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Channel struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func Dial(...) *Channel {
//	    return &Channel{logger: logger.ComponentLogger("wsclient")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
