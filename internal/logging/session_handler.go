package logging

import "log/slog"

// withSessionID binds the session ID at the top level of base so that later
// groups do not nest it.
func withSessionID(base slog.Handler, sessionID string) slog.Handler {
	if base == nil {
		return discardHandler{}
	}
	if sessionID == "" {
		return base
	}
	return base.WithAttrs([]slog.Attr{slog.String(FieldSessionID, sessionID)})
}
