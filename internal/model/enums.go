package model

// Backend selects the output format the simulator produces
type Backend string

const (
	BackendStateVector   Backend = "sv"
	BackendDensityMatrix Backend = "dm"
)

var ValidBackends = []Backend{
	BackendStateVector, BackendDensityMatrix,
}

// IsValid reports whether b is a known backend tag
func (b Backend) IsValid() bool {
	for _, v := range ValidBackends {
		if b == v {
			return true
		}
	}
	return false
}

// JobState is a step of the job lifecycle
type JobState string

const (
	JobStateIntake    JobState = "intake"
	JobStateWritten   JobState = "written"
	JobStateInvoked   JobState = "invoked"
	JobStateParsed    JobState = "parsed"
	JobStateCleanedUp JobState = "cleaned_up"
	JobStateErrored   JobState = "errored"
)

// IsTerminal reports whether no further transition can follow s
func (s JobState) IsTerminal() bool {
	return s == JobStateCleanedUp || s == JobStateErrored
}
