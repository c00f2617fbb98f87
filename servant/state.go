package servant

// State is the lifecycle position of a task.
type State int32

const (
	StateCreated State = iota
	StateBefore
	StateProcess
	StateAfter
	StateException
	StateDone
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateBefore:
		return "before"
	case StateProcess:
		return "process"
	case StateAfter:
		return "after"
	case StateException:
		return "exception"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDone
}
