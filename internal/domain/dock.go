package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCapacity = errors.New("invalid capacity")

// Dock is a fixed delivery destination on the floor.
//
// CurrentLoad is a display counter. It is rewritten after every optimization
// run and is never read by the optimizer itself.
type Dock struct {
	ID          int64
	Name        string
	Position    Point
	MaxCapacity int
	CurrentLoad int
}

// Validate rejects docks that cannot take part in a schedule.
func (d Dock) Validate() error {
	if d.MaxCapacity < 0 {
		return fmt.Errorf("dock %q: max capacity %d: %w", d.Name, d.MaxCapacity, ErrInvalidCapacity)
	}
	if d.CurrentLoad < 0 {
		return fmt.Errorf("dock %q: current load %d must be non-negative", d.Name, d.CurrentLoad)
	}
	return nil
}
