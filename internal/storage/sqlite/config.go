package sqlite

// Config holds SQLite settings
type Config struct {
	// Path is the database file; parent directories are created on open
	Path string

	// BusyTimeoutMs is how long a writer waits on a locked database
	BusyTimeoutMs int
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path:          "./data/wordgrid.db",
		BusyTimeoutMs: 5000,
	}
}
