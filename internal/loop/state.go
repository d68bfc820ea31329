package loop

type State int

const (
	StateUninitialized State = iota
	StateRunning             // frames are being scheduled
	StateDisposed            // resources released; terminal
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}
