package broadcast

// Config holds configuration for the broadcast hub.
type Config struct {
	// Path is the websocket route clients subscribe on.
	Path string `mapstructure:"path" default:"/ws"`
	// ArchiveEnabled turns on the object storage event archive.
	ArchiveEnabled bool `mapstructure:"archive_enabled" default:"false"`
}
