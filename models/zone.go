package models

// Zone is a named delivery area.
type Zone struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AreaGroup string `json:"areaGroup,omitempty"`
}
