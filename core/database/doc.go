// Package database manages the connection to the dispatch MySQL database.
//
// It builds the DSN from configuration, applies sane pool settings, and
// verifies the connection with a bounded ping before handing the *gorm.DB
// to the rest of the application. All unit, call, and jail records live in
// this database.
package database
