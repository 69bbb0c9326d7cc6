package models

// Actor is the authenticated user an operation runs on behalf of.
type Actor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Name returns the display name, falling back to "Anonymous".
func (a Actor) Name() string {
	if a.DisplayName == "" {
		return "Anonymous"
	}
	return a.DisplayName
}
