package model

import "time"

// Period is one academic term, e.g. "2026.2". Availability intervals always
// belong to a (professor, period) pair.
type Period struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Ended reports whether the period is over at the reference instant.
func (p *Period) Ended(ref time.Time) bool {
	return p.EndsAt.Before(ref)
}
