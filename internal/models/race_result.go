package models

// UnplacedPosition is the sentinel used when a result carries no position.
// It cannot be told apart from an explicit finishing position of 0.
const UnplacedPosition = 0

// ResultEntry represents a horse's post-race outcome
type ResultEntry struct {
	ID       string `json:"id"`
	Position *int   `json:"position,omitempty"`
}

// NewResultEntry builds a result with a known finishing position
func NewResultEntry(id string, position int) ResultEntry {
	return ResultEntry{ID: id, Position: &position}
}

// GetPosition returns the finishing position or UnplacedPosition if nil
func (r *ResultEntry) GetPosition() int {
	if r.Position == nil {
		return UnplacedPosition
	}
	return *r.Position
}

// IsWin checks if the result is a first place finish
func (r *ResultEntry) IsWin() bool {
	return r.GetPosition() == 1
}
