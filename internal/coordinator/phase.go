package coordinator

// Phase is the coordinator's position in the per-attempt lifecycle. Exactly
// one phase is live at a time; only coordinator events drive transitions.
type Phase string

const (
	// PhaseIdle means no operation is in flight; a new input is accepted.
	PhaseIdle Phase = "Idle"
	// PhasePreparing means the conversion handshake is running.
	PhasePreparing Phase = "Preparing"
	// PhaseAwaitingSavePath means a plan exists and the path selector has
	// been asked for a destination.
	PhaseAwaitingSavePath Phase = "AwaitingSavePath"
	// PhaseDownloading means the engine is streaming bytes to disk.
	PhaseDownloading Phase = "Downloading"
	// PhaseCompleted means the last attempt finished durably.
	PhaseCompleted Phase = "Completed"
	// PhaseFailed means the last attempt surfaced an error.
	PhaseFailed Phase = "Failed"
)

// String returns the phase name.
func (p Phase) String() string {
	return string(p)
}

// IsTerminal reports whether the last attempt reached a final outcome.
// A new input restarts the lifecycle from either terminal phase.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}
