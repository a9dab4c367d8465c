package domain

import "time"

// Project is a work site, as known to the survey backend.
type Project struct {
	ID       string
	Name     string
	Address  string
	SyncedAt time.Time
}

// DisplayID returns the project id truncated to 8 characters for tables.
func (p *Project) DisplayID() string {
	if len(p.ID) > 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Label returns "Name (Address)", or just the name when no address is known.
func (p *Project) Label() string {
	if p.Address == "" {
		return p.Name
	}
	return p.Name + " (" + p.Address + ")"
}
