package moltbook

// BackendName identifies one of the services the gateway talks to
type BackendName string

const (
	// Moltbook is the primary social-platform API. Its failures abort the calling operation.
	Moltbook BackendName = "moltbook"

	// The remaining backends are independently operated Moltiverse services.
	// They may be offline or unreleased, so their failures are absorbed.
	Moltiverse BackendName = "moltiverse"
	MoltPlace  BackendName = "moltplace"
	MoltMarket BackendName = "moltmarket"
	CraberNews BackendName = "crabernews"
)

// Backend defines a target HTTP service
type Backend struct {
	// Name is used in logs, metrics and error messages
	Name BackendName `json:"name" yaml:"name"`

	// BaseURL is prepended to every request path sent to this backend
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Primary marks the backend whose failures are raised instead of absorbed
	Primary bool `json:"primary" yaml:"primary"`
}
