package cli

import "os"

// Connection holds the resolved API endpoint and credentials for CLI
// commands.
type Connection struct {
	BaseURL string
	APIKey  string
}

// ResolveConnection resolves the API endpoint from flags, falling back to
// FLAGPOLE_BASE_URL / FLAGPOLE_API_KEY environment variables and then a
// local default. Flag values win.
func ResolveConnection(baseURL, apiKey string) Connection {
	if baseURL == "" {
		baseURL = os.Getenv("FLAGPOLE_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if apiKey == "" {
		apiKey = os.Getenv("FLAGPOLE_API_KEY")
	}
	return Connection{BaseURL: baseURL, APIKey: apiKey}
}
