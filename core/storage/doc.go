// Package storage provides the object storage client used by the broadcast
// event archive.
//
// It wraps the Minio SDK behind a small Client interface so the archive can
// be unit tested against the mock in storage/mocks. The client is optional:
// when storage is unreachable the server still runs, it just keeps no event
// archive.
package storage
