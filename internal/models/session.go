package models

// SessionRequest carries the display name entered on the welcome page. Any
// non-empty trimmed name is accepted; there is no password in this system.
type SessionRequest struct {
	Name string `json:"name"`
}

type SessionResponse struct {
	Name string `json:"name"`
}
