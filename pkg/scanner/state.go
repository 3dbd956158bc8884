// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// MaxSerializedSize is the upper bound of a serialized State.
	MaxSerializedSize = 16

	serializedSize = 4
)

var (
	// ErrLegacyState is reported when a buffer only carries the block depth.
	ErrLegacyState = errors.New("legacy scanner state: fence cleared")
	// ErrInvalidFence is reported when a buffer carries a fence that fails validation.
	ErrInvalidFence = errors.New("invalid fence in scanner state: fence cleared")
)

// Fence describes the delimited block the scanner is currently inside.
type Fence struct {
	Marker byte
	Count  uint8
	Kind   BlockKind
}

func (f Fence) String() string {
	return fmt.Sprintf("%s(%q x%d)", f.Kind, f.Marker, f.Count)
}

// State is the scanner's persistent state. It is a value: every scan receives
// the current state and returns the next one.
type State struct {
	fence    Fence
	hasFence bool
	depth    uint8
}

// OpenFence returns the fence that has been opened and not yet closed, if any.
func (s State) OpenFence() (Fence, bool) {
	return s.fence, s.hasFence
}

// Depth returns the number of currently open delimited blocks.
func (s State) Depth() uint8 {
	return s.depth
}

// Inside reports whether opaque content lines are currently allowed.
func (s State) Inside() bool {
	return s.hasFence || s.depth > 0
}

func (s State) String() string {
	if !s.hasFence {
		return fmt.Sprintf("depth=%d", s.depth)
	}
	return fmt.Sprintf("depth=%d fence=%s", s.depth, s.fence)
}

func (s State) open(f Fence) State {
	s.fence = f
	s.hasFence = true
	if s.depth < 255 {
		s.depth++
	}
	return s
}

func (s State) close() State {
	s.fence = Fence{}
	s.hasFence = false
	if s.depth > 0 {
		s.depth--
	}
	return s
}

// Serialize writes the state into buf and returns the number of bytes written.
// A buffer shorter than the full encoding receives a prefix of it, which
// deserializes to a state with the fence cleared.
func (s State) Serialize(buf []byte) int {
	var enc [serializedSize]byte
	enc[0] = s.depth
	if s.hasFence {
		enc[1] = s.fence.Marker
		enc[2] = s.fence.Count
		enc[3] = byte(s.fence.Kind)
	}
	return copy(buf, enc[:])
}

// Bytes returns the serialized state.
func (s State) Bytes() []byte {
	buf := make([]byte, serializedSize)
	return buf[:s.Serialize(buf)]
}

// Deserialize restores a state previously produced by Serialize. Short, empty
// or malformed buffers yield a state whose fence is cleared.
func Deserialize(buf []byte) State {
	s, _ := DecodeState(buf)
	return s
}

// DecodeState is like Deserialize but also reports why the fence was dropped.
// The returned State is always safe to use.
func DecodeState(buf []byte) (State, error) {
	switch {
	case len(buf) == 0:
		return State{}, nil
	case len(buf) < serializedSize:
		return State{depth: buf[0]}, ErrLegacyState
	}

	s := State{depth: buf[0]}
	if buf[1] == 0 && buf[2] == 0 && buf[3] == 0 {
		return s, nil
	}

	f := Fence{Marker: buf[1], Count: buf[2], Kind: BlockKind(buf[3])}
	if err := validateFence(f); err != nil {
		return s, errors.Wrapf(ErrInvalidFence, "%v", err)
	}
	s.fence = f
	s.hasFence = true
	return s, nil
}

func validateFence(f Fence) error {
	rule, ok := fenceRuleFor(f.Marker)
	if !ok {
		return fmt.Errorf("unknown marker %q", f.Marker)
	}
	kind, ok := rule.resolve(int(f.Count))
	if !ok {
		return fmt.Errorf("marker %q cannot repeat %d times", f.Marker, f.Count)
	}
	if kind != f.Kind {
		return fmt.Errorf("marker %q resolves to %s, not %s", f.Marker, kind, f.Kind)
	}
	return nil
}
