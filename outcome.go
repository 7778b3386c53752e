package ddmin

import "strconv"

// Outcome is the result of evaluating a configuration with an Oracle.
type Outcome int

const (
	// Unresolved means the test could not tell; the part is skipped.
	Unresolved Outcome = iota
	Pass
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Unresolved:
		return "UNRESOLVED"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Valid reports whether o is one of Pass, Fail or Unresolved.
func (o Outcome) Valid() bool {
	switch o {
	case Pass, Fail, Unresolved:
		return true
	default:
		return false
	}
}
