package journal

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mark3labs/mgen/internal/logger"
	"github.com/mark3labs/mgen/internal/nats"
	"github.com/mark3labs/mgen/internal/wizard"
)

const subscribeBuffer = 64

// Recorder journals the events of one wizard. A run id groups events from
// the first step to a terminal event; the next event starts a new run.
type Recorder struct {
	store *Store

	mu      sync.Mutex
	wizard  string
	run     string
	lastRun string
}

// NewRecorder returns a recorder publishing to store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// Attach starts journaling w. Events are published from a background
// goroutine so the wizard never waits on the journal. The returned func
// unsubscribes, lets pending events flush, and waits.
func (r *Recorder) Attach(ctx context.Context, w *wizard.StepWizard) func() {
	r.mu.Lock()
	r.wizard = w.Name()
	r.mu.Unlock()

	ch, unsubscribe := w.Subscribe(subscribeBuffer)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for ev := range ch {
			r.publish(ctx, ev)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			<-done
		})
	}
}

func (r *Recorder) publish(ctx context.Context, ev wizard.Event) {
	r.mu.Lock()
	if r.run == "" {
		r.run = uuid.NewString()
	}
	run := r.run
	if ev.Kind != wizard.EventSwitched {
		r.lastRun = run
		r.run = ""
	}
	r.mu.Unlock()

	_, err := r.store.Record(ctx, Entry{
		Run:       run,
		Wizard:    ev.Wizard,
		Kind:      string(ev.Kind),
		Step:      ev.Step,
		Direction: ev.Direction.String(),
	})
	if err != nil {
		logger.Warn("journal: dropping %s event: %v", ev.Kind, err)
	}
}

// LastRun returns the id of the most recently terminated run.
func (r *Recorder) LastRun() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun
}

// RecordCreated notes that the finished run produced recordID.
func (r *Recorder) RecordCreated(ctx context.Context, recordID, message string) error {
	return r.recordResult(ctx, nats.KindCreated, recordID, message)
}

// RecordFailed notes that submitting the finished run failed.
func (r *Recorder) RecordFailed(ctx context.Context, cause error) error {
	return r.recordResult(ctx, nats.KindFailed, "", cause.Error())
}

func (r *Recorder) recordResult(ctx context.Context, kind, recordID, message string) error {
	r.mu.Lock()
	run, name := r.lastRun, r.wizard
	r.mu.Unlock()
	if run == "" {
		run = uuid.NewString()
	}
	_, err := r.store.Record(ctx, Entry{
		Run:      run,
		Wizard:   name,
		Kind:     kind,
		RecordID: recordID,
		Message:  message,
	})
	return err
}
