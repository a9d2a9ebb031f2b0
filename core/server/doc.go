// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the API key protecting every
// route and the snapshot read cache TTL. It is embedded by core/config and
// read by the serve command.
package server
