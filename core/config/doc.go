// Package config loads the application configuration.
//
// Configuration comes from environment variables, optionally overlaid by a
// .env file for local development. Defaults are declared as struct tags on
// the partial config types that live beside the packages they configure
// (server, database, logger, storage, broadcast); this package binds them
// into Viper via reflection so SERVER_PORT maps to server.port and so on.
package config
