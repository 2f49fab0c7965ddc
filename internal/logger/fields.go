package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Keys attached to pipeline log entries.
const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldOperation = "operation"
	FieldSchema    = "schema"
)

// Scope is what a log entry belongs to: the backend that answers and the
// pipeline step that asks. Blank members are not logged.
type Scope struct {
	Provider  string
	Model     string
	Operation string
	Schema    string
}

// Fields renders the non-blank members of s.
func (s Scope) Fields() []zap.Field {
	pairs := [...][2]string{
		{FieldProvider, s.Provider},
		{FieldModel, s.Model},
		{FieldOperation, s.Operation},
		{FieldSchema, s.Schema},
	}

	fields := make([]zap.Field, 0, len(pairs))
	for _, p := range pairs {
		if v := strings.TrimSpace(p[1]); v != "" {
			fields = append(fields, zap.String(p[0], v))
		}
	}
	return fields
}

// Scoped returns log with s attached. A nil log becomes a no-op logger.
func Scoped(log *zap.Logger, s Scope) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if fields := s.Fields(); len(fields) > 0 {
		return log.With(fields...)
	}
	return log
}

// ForProvider scopes log to an AI backend and model.
func ForProvider(log *zap.Logger, provider, model string) *zap.Logger {
	return Scoped(log, Scope{Provider: provider, Model: model})
}

// ForOperation scopes log to a pipeline entry point.
func ForOperation(log *zap.Logger, operation string) *zap.Logger {
	return Scoped(log, Scope{Operation: operation})
}
