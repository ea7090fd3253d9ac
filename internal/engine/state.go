package engine

// State is the batch lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateResolving
	StateExpanding
	StateRenaming
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateExpanding:
		return "expanding"
	case StateRenaming:
		return "renaming"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
