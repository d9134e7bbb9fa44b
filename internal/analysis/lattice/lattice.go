package lattice

import "github.com/gnolang/signai/internal/lang"

// Sign models the sign lattice for integer values.
//
//	    Top
//	   /   \
//	 Pos   Neg
//	   \   /
//	  Bottom
//
// Zero belongs to Pos: the lattice has no separate Zero element, so Pos
// reads as "non-negative" and Neg as "strictly negative".
type Sign int

const (
	Bottom Sign = iota // unreachable
	Top
	Pos
	Neg
)

func (s Sign) String() string {
	switch s {
	case Bottom:
		return "Bottom"
	case Top:
		return "Top"
	case Pos:
		return "Pos"
	case Neg:
		return "Neg"
	default:
		return "Unknown"
	}
}

// Abstract returns the sign of n. Zero maps to Pos.
func Abstract(n lang.Const) Sign {
	if n < 0 {
		return Neg
	}
	return Pos
}

// Includes reports whether b over-approximates a, i.e. a ⊑ b.
// It holds exactly when a is Bottom, b is Top, or both are equal.
func Includes(a, b Sign) bool {
	return a == Bottom || b == Top || a == b
}

// Contains reports whether the concrete value n is described by s.
func Contains(s Sign, n lang.Const) bool {
	return Includes(Abstract(n), s)
}

// Join returns the least upper bound in the lattice.
func Join(a, b Sign) Sign {
	if a == Bottom {
		return b
	}
	if b == Bottom {
		return a
	}
	if a == Top || b == Top {
		return Top
	}
	if a == b {
		return a
	}
	// Pos + Neg.
	return Top
}

// Meet returns the greatest lower bound in the lattice.
func Meet(a, b Sign) Sign {
	if a == Bottom || b == Bottom {
		return Bottom
	}
	if a == Top {
		return b
	}
	if b == Top {
		return a
	}
	if a == b {
		return a
	}
	return Bottom
}

// All lists every lattice element.
var All = []Sign{Bottom, Top, Pos, Neg}
