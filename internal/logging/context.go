package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Standard attribute keys.
const (
	FieldComponent = "component"
	FieldSessionID = "session_id"
	FieldTimeline  = "timeline"
)

type contextKey struct{}

// scope holds the log fields carried on a context.
type scope struct {
	sessionID string
	timeline  string
}

func scopeFrom(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(contextKey{}).(scope)
	return s
}

// WithSessionID stores an editing session identifier on ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	s := scopeFrom(ctx)
	s.sessionID = strings.TrimSpace(id)
	return context.WithValue(ctx, contextKey{}, s)
}

// SessionIDFromContext returns the session identifier stored on ctx.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id := scopeFrom(ctx).sessionID
	return id, id != ""
}

// WithTimeline stores the name of the timeline being worked on.
func WithTimeline(ctx context.Context, name string) context.Context {
	s := scopeFrom(ctx)
	s.timeline = strings.TrimSpace(name)
	return context.WithValue(ctx, contextKey{}, s)
}

// TimelineFromContext returns the timeline name stored on ctx.
func TimelineFromContext(ctx context.Context) (string, bool) {
	name := scopeFrom(ctx).timeline
	return name, name != ""
}

// WithContext returns logger with the session and timeline fields found on
// ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	s := scopeFrom(ctx)
	var args []any
	if s.sessionID != "" {
		args = append(args, String(FieldSessionID, s.sessionID))
	}
	if s.timeline != "" {
		args = append(args, String(FieldTimeline, s.timeline))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
