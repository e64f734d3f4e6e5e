package gpio

import (
	"fmt"
	"sort"
)

// Simulated is an in-memory Pins backend. It records the configured pins,
// their current levels and the number of level changes.
type Simulated struct {
	outputs map[int32]bool
	levels  map[int32]int
	Writes  int
}

// NewSimulated returns a Simulated backend with no configured pins.
func NewSimulated() *Simulated {
	return &Simulated{outputs: make(map[int32]bool), levels: make(map[int32]int)}
}

func (s *Simulated) Output(pin int32) error {
	if pin < 0 {
		return fmt.Errorf("invalid pin %d", pin)
	}
	s.outputs[pin] = true
	return nil
}

func (s *Simulated) Set(pin int32, level int) error {
	if !s.outputs[pin] {
		return fmt.Errorf("pin %d is not an output", pin)
	}
	s.levels[pin] = level
	s.Writes++
	return nil
}

// Level returns the current level of pin.
func (s *Simulated) Level(pin int32) int { return s.levels[pin] }

// High returns the pins currently driven high, in ascending order.
func (s *Simulated) High() []int32 {
	var pins []int32
	for p, l := range s.levels {
		if l != 0 {
			pins = append(pins, p)
		}
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i] < pins[j] })
	return pins
}
