package compose

import (
	"fmt"

	"winrtgen/ir"
)

// Stack is the resolution context for generic parameter references. Walking
// into a generic instantiation pushes a frame of resolved arguments; a
// parameter reference always resolves against the innermost frame.
//
// The zero value is an empty stack.
type Stack struct {
	frames []ir.Frame
}

// Depth returns the number of live frames.
func (s *Stack) Depth() int { return len(s.frames) }

// Top returns the innermost frame.
func (s *Stack) Top() (ir.Frame, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	return s.frames[len(s.frames)-1], true
}

// Push pushes the given frames, outermost first, and returns a Guard that
// pops exactly what was pushed. Push with no frames is a no-op guard, which
// keeps call sites uniform:
//
//	defer s.Push(frames...).Release()
func (s *Stack) Push(frames ...ir.Frame) Guard {
	s.frames = append(s.frames, frames...)
	return Guard{stack: s, count: len(frames)}
}

// Resolve substitutes the generic parameter at index through the innermost
// frame. Resolution outside any frame, or past the end of the innermost
// frame, is a caller bug: references are validated against their declaration
// before they ever reach the stack.
func (s *Stack) Resolve(index int) ir.TypeExpr {
	top, ok := s.Top()
	if !ok {
		panic("compose: generic parameter reference outside any instantiation")
	}
	if index < 0 || index >= len(top) {
		panic(fmt.Sprintf("compose: generic parameter %d out of range for frame of %d", index, len(top)))
	}
	return top[index]
}

// Guard undoes one Push.
type Guard struct {
	stack *Stack
	count int
}

// Release pops the frames its Push added.
func (g Guard) Release() {
	s := g.stack
	s.frames = s.frames[:len(s.frames)-g.count]
}
