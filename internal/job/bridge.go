package job

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Event channel capacity. The UI drains continuously; the buffer only
// absorbs bursts so workers rarely block on the relay.
const eventBufferSize = 256

// Emitter is the handle a unit of work uses to relay events. It enforces the
// single-terminal contract: once a terminal event is emitted, every further
// emission is dropped.
type Emitter struct {
	ch       chan Event
	mu       sync.Mutex
	terminal bool
}

func (e *Emitter) send(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.terminal {
		return
	}
	if ev.IsTerminal() {
		e.terminal = true
	}
	e.ch <- ev
}

// ProgressText relays a free-form status line.
func (e *Emitter) ProgressText(text string) {
	e.send(Event{Kind: EventProgressText, Text: text})
}

// ProgressValue relays a 0-100 progress percentage.
func (e *Emitter) ProgressValue(value int) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	e.send(Event{Kind: EventProgressValue, Value: value})
}

// Counts relays the running success/failure tally.
func (e *Emitter) Counts(success, failure int) {
	e.send(Event{Kind: EventCounts, Success: success, Failure: failure})
}

// Data relays a job-specific result payload.
func (e *Emitter) Data(payload any) {
	e.send(Event{Kind: EventData, Payload: payload})
}

// Finish emits the success terminal event.
func (e *Emitter) Finish(msg string) {
	e.send(Event{Kind: EventFinished, Text: msg})
}

// Warn emits the partial-success terminal event.
func (e *Emitter) Warn(msg string) {
	e.send(Event{Kind: EventWarning, Text: msg})
}

// Fail emits the error terminal event.
func (e *Emitter) Fail(msg string) {
	e.send(Event{Kind: EventError, Text: msg})
}

func (e *Emitter) hasTerminated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.terminal
}

// Job is the handle of one submitted unit of work.
type Job struct {
	ID     string
	Name   string
	Events <-chan Event
	done   chan struct{}
}

// Done is closed after the terminal event has been emitted and the event
// channel closed.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job completes or the timeout elapses. It reports
// whether the job completed in time.
func (j *Job) Wait(timeout time.Duration) bool {
	select {
	case <-j.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Bridge runs units of work on background goroutines and relays their typed
// events to the interactive thread. Outstanding jobs are tracked so shutdown
// can wait for them boundedly.
type Bridge struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{jobs: make(map[string]*Job)}
}

// Submit starts work on a new goroutine and returns its job handle. The work
// function may emit any number of progress events and at most one terminal
// event; if it returns without one, the bridge emits Finished (or Error when
// the returned error is non-nil). A panic in the work is converted into an
// Error terminal event.
func (b *Bridge) Submit(name string, work func(*Emitter) error) *Job {
	emitter := &Emitter{ch: make(chan Event, eventBufferSize)}
	j := &Job{
		ID:     newJobID(),
		Name:   name,
		Events: emitter.ch,
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.jobs[j.ID] = j
	b.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{"job": name, "panic": r}).Error("background job panicked")
				emitter.Fail(fmt.Sprintf("internal error: %v", r))
			}
			close(emitter.ch)
			b.mu.Lock()
			delete(b.jobs, j.ID)
			b.mu.Unlock()
			close(j.done)
		}()

		err := work(emitter)
		if err != nil {
			if !emitter.hasTerminated() {
				emitter.Fail(err.Error())
			} else {
				log.WithFields(log.Fields{"job": name}).WithError(err).Warn("job returned error after terminal event")
			}
			return
		}
		if !emitter.hasTerminated() {
			emitter.Finish("")
		}
	}()

	return j
}

// Active returns the number of outstanding jobs.
func (b *Bridge) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.jobs)
}

// Shutdown waits up to grace per outstanding job, then returns regardless.
// Used at orderly application exit.
func (b *Bridge) Shutdown(grace time.Duration) {
	b.mu.Lock()
	outstanding := make([]*Job, 0, len(b.jobs))
	for _, j := range b.jobs {
		outstanding = append(outstanding, j)
	}
	b.mu.Unlock()

	for _, j := range outstanding {
		if !j.Wait(grace) {
			log.WithFields(log.Fields{"job": j.Name}).Warn("job still running at shutdown")
		}
	}
}

func newJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("job-%d", time.Now().UnixNano())
	}
	return id.String()
}
