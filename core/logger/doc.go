// Package logger builds the zap logger shared by commands and HTTP handlers.
//
// Level "debug" selects zap's development config, anything else the
// production config at that level. Format is "console" or "json". When File
// is set, log lines also go to that file and its directory is created.
//
// Request handlers tag their lines with the request's ray id:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
