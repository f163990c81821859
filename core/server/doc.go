// Package server holds the HTTP server configuration.
//
// It is a partial configuration consumed by core/config and by the start
// command, which builds the Fiber application around it.
package server
