package fsm

// TaskProgress tracks elapsed against required time for time-gated tasks.
type TaskProgress struct {
	TimeNeeded  float64
	TimeElapsed float64
}

// NewTaskProgress starts a fresh task that needs the given number of
// seconds. Negative durations are treated as zero.
func NewTaskProgress(needed float64) TaskProgress {
	if needed < 0 {
		needed = 0
	}
	return TaskProgress{TimeNeeded: needed}
}

// Advance returns p with dt more seconds elapsed. Elapsed time never goes
// backwards.
func (p TaskProgress) Advance(dt float64) TaskProgress {
	if dt > 0 {
		p.TimeElapsed += dt
	}
	return p
}

func (p TaskProgress) Complete() bool {
	return p.TimeElapsed >= p.TimeNeeded
}
