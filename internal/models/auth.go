package models

// Caller is the identity resolved from a request token.
type Caller struct {
	Address string `json:"address"`
}
