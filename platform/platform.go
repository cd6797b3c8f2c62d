// Package platform holds the static identity of every supported backend.
// The concrete backends live in the sub packages.
package platform

// Details is the identity record of one backend. It is immutable once the
// registry is built.
type Details struct {
	// ID is the siem_type tag used to look the renderer up.
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlatformName string `json:"platform_name"`
	GroupID      string `json:"group_id"`
	GroupName    string `json:"group_name"`

	// FirstChoice marks the preferred flavor inside a group.
	FirstChoice bool `json:"first_choice,omitempty"`

	// RuleDocument is true for backends whose output is a rule document
	// rather than a bare query.
	RuleDocument bool `json:"rule_document,omitempty"`
}
