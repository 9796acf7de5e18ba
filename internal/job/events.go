package job

// EventKind discriminates the messages a background job emits.
type EventKind int

const (
	// EventProgressText carries a free-form status line.
	EventProgressText EventKind = iota

	// EventProgressValue carries a 0-100 progress percentage.
	EventProgressValue

	// EventCounts carries the running (success, failure) pair.
	EventCounts

	// EventData carries a job-specific result payload (fetched entries,
	// format choices, scanned files).
	EventData

	// EventFinished is the terminal event of a fully successful run.
	EventFinished

	// EventWarning is the terminal event of a partially successful run.
	EventWarning

	// EventError is the terminal event of a failed run.
	EventError
)

// Event is one message relayed from a worker goroutine to the interactive
// thread. Exactly one terminal event is emitted per run and nothing follows
// it.
type Event struct {
	Kind    EventKind
	Text    string
	Value   int
	Success int
	Failure int
	Payload any
}

// IsTerminal reports whether the event ends its job's stream.
func (e Event) IsTerminal() bool {
	return e.Kind == EventFinished || e.Kind == EventWarning || e.Kind == EventError
}
