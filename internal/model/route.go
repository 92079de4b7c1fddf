package model

// Route identifies the view currently being displayed. It is passed through
// to the view untouched.
type Route struct {
	Name   string            `json:"name"`
	Path   string            `json:"path"`
	Params map[string]string `json:"params,omitempty"`
}
