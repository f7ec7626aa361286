package api

import "time"

// DefaultBaseURL is the backend the CLI talks to when config does not say otherwise.
const DefaultBaseURL = "http://localhost:8080"

// NewDefaultClient builds a client pointed at the default backend URL.
func NewDefaultClient(apiKey string, timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, apiKey, timeout...)
}
