package assembly

// State is the position of one request in the assembly state machine:
//
//	Pending -> Succeeded -> Assembled
//	Pending -> Succeeded -> AssemblyFailed
//	Pending -> Failed
type State uint8

const (
	StatePending State = iota
	StateSucceeded
	StateAssembled
	StateAssemblyFailed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateAssembled:
		return "assembled"
	case StateAssemblyFailed:
		return "assembly_failed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateAssembled || s == StateAssemblyFailed || s == StateFailed
}
