package core

// Sim is the contract a host drives once per presented frame.
//
// Step reads the latest external signals, advances the simulation by one
// tick and reports terminal conditions as errors. Close stops future ticks
// and releases everything the simulation acquired.
type Sim interface {
	Name() string
	Reset(seed int64) error
	Step() error
	Close() error
}

// Pauser is implemented by simulations that can suspend time.
type Pauser interface {
	Pause()
	Resume()
	Paused() bool
}

// TogglePause flips p between paused and running and reports the new state.
func TogglePause(p Pauser) bool {
	if p.Paused() {
		p.Resume()
		return false
	}
	p.Pause()
	return true
}
