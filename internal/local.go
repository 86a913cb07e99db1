package internal

import "strings"

var localAddressMarkers = []string{"localhost", "127.0.0.1", "192.168."}

// IsLocalAddress reports whether baseURL points at a self-hosted backend
// (Ollama, LocalAI, ...) that does not need an API key.
func IsLocalAddress(baseURL string) bool {
	lower := strings.ToLower(baseURL)
	for _, marker := range localAddressMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
