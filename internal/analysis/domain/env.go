package domain

import (
	"fmt"
	"strings"

	"github.com/gnolang/signai/internal/analysis/lattice"
	"github.com/gnolang/signai/internal/concrete"
	"github.com/gnolang/signai/internal/lang"
)

// DefaultCapacity matches the capacity of a concrete memory.
const DefaultCapacity = concrete.DefaultCapacity

// Env maps every variable slot to a sign. It is a value: all operations
// return new environments and never modify the receiver.
type Env struct {
	slots []lattice.Sign
}

// New creates an environment with DefaultCapacity slots, all Top.
func New() Env {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates an environment with n slots, all Top. A variable
// that was never written may hold any value.
func NewWithCapacity(n int) Env {
	return filled(n, lattice.Top)
}

// FromMemory abstracts every slot of m.
func FromMemory(m concrete.Memory) Env {
	slots := make([]lattice.Sign, m.Capacity())
	for i := range slots {
		slots[i] = lattice.Abstract(m.Read(lang.Var(i)))
	}
	return Env{slots: slots}
}

func filled(n int, s lattice.Sign) Env {
	slots := make([]lattice.Sign, n)
	for i := range slots {
		slots[i] = s
	}
	return Env{slots: slots}
}

// Capacity returns the number of slots.
func (e Env) Capacity() int {
	return len(e.slots)
}

// Read returns the sign of x. It panics with *lang.IndexError when x is
// outside the environment.
func (e Env) Read(x lang.Var) lattice.Sign {
	lang.CheckIndex(x, len(e.slots))
	return e.slots[x]
}

// Write returns a copy of e with x set to s.
func (e Env) Write(x lang.Var, s lattice.Sign) Env {
	lang.CheckIndex(x, len(e.slots))
	out := e.clone()
	out.slots[x] = s
	return out
}

func (e Env) clone() Env {
	slots := make([]lattice.Sign, len(e.slots))
	copy(slots, e.slots)
	return Env{slots: slots}
}

// Join merges two environments slot by slot.
func (e Env) Join(other Env) Env {
	mustMatch(e, other)
	out := e.clone()
	for i := range out.slots {
		out.slots[i] = lattice.Join(e.slots[i], other.slots[i])
	}
	return out
}

// IsBottom reports whether any slot is Bottom. A single contradictory fact
// makes the whole program point unreachable.
func (e Env) IsBottom() bool {
	for _, s := range e.slots {
		if s == lattice.Bottom {
			return true
		}
	}
	return false
}

// Bottomize returns an environment of the same size with every slot Bottom.
func (e Env) Bottomize() Env {
	return filled(len(e.slots), lattice.Bottom)
}

// IsLessOrEqual reports whether e ⊑ other, i.e. every slot of other
// includes the matching slot of e.
func (e Env) IsLessOrEqual(other Env) bool {
	mustMatch(e, other)
	le := true
	for i := range e.slots {
		le = le && lattice.Includes(e.slots[i], other.slots[i])
	}
	return le
}

// Equal reports whether both environments hold the same signs.
func (e Env) Equal(other Env) bool {
	if len(e.slots) != len(other.slots) {
		return false
	}
	for i := range e.slots {
		if e.slots[i] != other.slots[i] {
			return false
		}
	}
	return true
}

// Format renders the given variables, e.g. "{v0: Pos, v1: Top}".
func (e Env) Format(vars []lang.Var) string {
	parts := make([]string, 0, len(vars))
	for _, v := range vars {
		parts = append(parts, fmt.Sprintf("%s: %s", v, e.Read(v)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// String renders every slot that is not Top. An unreachable environment
// renders as "⊥".
func (e Env) String() string {
	if e.IsBottom() {
		return "⊥"
	}
	var vars []lang.Var
	for i, s := range e.slots {
		if s != lattice.Top {
			vars = append(vars, lang.Var(i))
		}
	}
	return e.Format(vars)
}

func mustMatch(a, b Env) {
	if len(a.slots) != len(b.slots) {
		panic(fmt.Sprintf("domain: environments of different capacity (%d vs %d)", len(a.slots), len(b.slots)))
	}
}
