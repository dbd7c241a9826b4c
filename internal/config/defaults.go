package config

const DefaultDashboardAddr = "127.0.0.1:8080"

// DefaultLogDir returns the default audit log directory path.
func DefaultLogDir() string {
	return "~/.chatsift/logs"
}
