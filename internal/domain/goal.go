package domain

import "time"

// Goal is a savings target, optionally tied to a deadline and a category.
type Goal struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"-"`
	Name          string     `json:"nome"`
	TargetAmount  float64    `json:"valor_alvo"`
	CurrentAmount float64    `json:"valor_atual"`
	Deadline      *time.Time `json:"prazo,omitempty"`
	CategoryID    string     `json:"categoria_id,omitempty"`
	Active        bool       `json:"ativa"`
}

// Remaining is how much is still missing, clamped at zero so an overshot
// goal never reports a negative remainder.
func (g Goal) Remaining() float64 {
	if r := g.TargetAmount - g.CurrentAmount; r > 0 {
		return r
	}
	return 0
}

// Completed reports whether the target has been reached. A zero target is
// trivially complete.
func (g Goal) Completed() bool {
	return g.CurrentAmount >= g.TargetAmount
}
