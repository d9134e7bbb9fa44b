package concrete

import (
	"fmt"
	"strings"

	"github.com/gnolang/signai/internal/lang"
)

// DefaultCapacity is the number of slots of a memory created by NewMemory.
const DefaultCapacity = 100

// Memory maps every variable slot to an integer. Slots never written hold 0.
// A Memory is a value: Write returns an updated copy and leaves the receiver
// untouched.
type Memory struct {
	slots []lang.Const
}

// NewMemory creates a zero-filled memory with DefaultCapacity slots.
func NewMemory() Memory {
	return NewMemoryWithCapacity(DefaultCapacity)
}

// NewMemoryWithCapacity creates a zero-filled memory with n slots.
func NewMemoryWithCapacity(n int) Memory {
	return Memory{slots: make([]lang.Const, n)}
}

// Capacity returns the number of slots.
func (m Memory) Capacity() int {
	return len(m.slots)
}

// Read returns the value of x. It panics with *lang.IndexError when x is
// outside the memory.
func (m Memory) Read(x lang.Var) lang.Const {
	lang.CheckIndex(x, len(m.slots))
	return m.slots[x]
}

// Write returns a copy of m with x set to v.
func (m Memory) Write(x lang.Var, v lang.Const) Memory {
	lang.CheckIndex(x, len(m.slots))
	slots := make([]lang.Const, len(m.slots))
	copy(slots, m.slots)
	slots[x] = v
	return Memory{slots: slots}
}

// Equal reports whether both memories hold the same values.
func (m Memory) Equal(other Memory) bool {
	if len(m.slots) != len(other.slots) {
		return false
	}
	for i := range m.slots {
		if m.slots[i] != other.slots[i] {
			return false
		}
	}
	return true
}

// Format renders the given variables, e.g. "{v0: 4, v1: -2}".
func (m Memory) Format(vars []lang.Var) string {
	parts := make([]string, 0, len(vars))
	for _, v := range vars {
		parts = append(parts, fmt.Sprintf("%s: %d", v, int64(m.Read(v))))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
