// Package journal keeps an append-only log of wizard runs in JetStream and
// replays it into per-run summaries.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mgen/internal/logger"
	"github.com/mark3labs/mgen/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// Entry is one journal record.
type Entry struct {
	Seq       uint64    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Run       string    `json:"run"`
	Wizard    string    `json:"wizard"`
	Kind      string    `json:"kind"`
	Step      int       `json:"step"`
	Direction string    `json:"direction,omitempty"`
	RecordID  string    `json:"record_id,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Outcome summarises how a run ended.
type Outcome string

const (
	OutcomeOpen     Outcome = "open"
	OutcomeFinished Outcome = "finished"
	OutcomeCanceled Outcome = "canceled"
	OutcomeCreated  Outcome = "created"
	OutcomeFailed   Outcome = "failed"
)

// Run is the reduced view of all entries sharing a run id.
type Run struct {
	ID       string
	Wizard   string
	Started  time.Time
	Updated  time.Time
	Steps    []int
	Outcome  Outcome
	RecordID string
	Message  string
}

// Apply folds e into the run.
func (r *Run) Apply(e Entry) {
	if r.Started.IsZero() || e.Timestamp.Before(r.Started) {
		r.Started = e.Timestamp
	}
	if e.Timestamp.After(r.Updated) {
		r.Updated = e.Timestamp
	}

	switch e.Kind {
	case nats.KindSwitched:
		r.Steps = append(r.Steps, e.Step)
	case nats.KindFinished:
		r.Outcome = OutcomeFinished
	case nats.KindCanceled:
		r.Outcome = OutcomeCanceled
	case nats.KindCreated:
		r.Outcome = OutcomeCreated
		r.RecordID = e.RecordID
		r.Message = e.Message
	case nats.KindFailed:
		r.Outcome = OutcomeFailed
		r.Message = e.Message
	}
}

// Store publishes and replays journal entries.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore wraps an already set up stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream}
}

// Open sets up the journal stream on js.
func Open(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	stream, err := nats.SetupStream(ctx, js)
	if err != nil {
		return nil, fmt.Errorf("setting up journal stream: %w", err)
	}
	return NewStore(js, stream), nil
}

// Record appends e. A zero timestamp is set to now.
func (s *Store) Record(ctx context.Context, e Entry) (*jetstream.PubAck, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Run == "" {
		return nil, fmt.Errorf("journal entry for %s has no run id", e.Wizard)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding journal entry: %w", err)
	}

	subject := nats.SubjectForEvent(e.Wizard, e.Kind)
	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		return nil, fmt.Errorf("publishing to %s: %w", subject, err)
	}
	logger.Debug("journal: %s run=%s step=%d seq=%d", subject, e.Run, e.Step, ack.Sequence)
	return ack, nil
}

// Entries replays every entry of wizard, or of all wizards when wizard is
// empty, in stream order. Malformed messages are skipped.
func (s *Store) Entries(ctx context.Context, wizard string) ([]Entry, error) {
	filter := "mgen.>"
	if wizard != "" {
		filter = nats.SubjectForWizard(wizard)
	}

	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: filter,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("creating journal consumer: %w", err)
	}

	const batchSize = 500
	var out []Entry
	skipped := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		n := 0
		for msg := range msgs.Messages() {
			n++
			var e Entry
			if err := json.Unmarshal(msg.Data(), &e); err != nil {
				skipped++
				_ = msg.Ack()
				continue
			}
			if meta, err := msg.Metadata(); err == nil {
				e.Seq = meta.Sequence.Stream
			}
			out = append(out, e)
			_ = msg.Ack()
		}
		if n < batchSize {
			break
		}
	}

	if skipped > 0 {
		logger.Warn("journal: skipped %d malformed entries", skipped)
	}
	return out, nil
}

// History reduces the entries of wizard into runs, oldest first.
func (s *Store) History(ctx context.Context, wizard string) ([]*Run, error) {
	entries, err := s.Entries(ctx, wizard)
	if err != nil {
		return nil, err
	}
	return Reduce(entries), nil
}

// Reduce groups entries by run id. Runs without a terminal entry stay open.
func Reduce(entries []Entry) []*Run {
	byID := make(map[string]*Run)
	var runs []*Run
	for _, e := range entries {
		r, ok := byID[e.Run]
		if !ok {
			r = &Run{ID: e.Run, Wizard: e.Wizard, Outcome: OutcomeOpen}
			byID[e.Run] = r
			runs = append(runs, r)
		}
		r.Apply(e)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Started.Before(runs[j].Started) })
	return runs
}
