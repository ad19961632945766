package nats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream holding wizard events.
	StreamName = "mgen_wizard_events"

	subjectRoot = "mgen"
	retention   = 30 * 24 * time.Hour
)

// Event kinds stored in the journal. The first three mirror wizard events,
// the last two record what the console did with a finished wizard.
const (
	KindSwitched = "switched"
	KindFinished = "finished"
	KindCanceled = "canceled"
	KindCreated  = "created"
	KindFailed   = "failed"
)

// SubjectForWizard returns the wildcard subject for all events of a wizard.
// Example: "mgen.item.>"
func SubjectForWizard(wizard string) string {
	return fmt.Sprintf("%s.%s.>", subjectRoot, token(wizard))
}

// SubjectForEvent returns the subject of one event kind of a wizard.
// Example: "mgen.item.finished"
func SubjectForEvent(wizard, kind string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, token(wizard), token(kind))
}

// token keeps a subject token free of separators and wildcards.
func token(s string) string {
	r := strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")
	if s = r.Replace(s); s == "" {
		return "_"
	}
	return s
}

// SetupStream creates or updates the journal stream: file backed, every
// mgen.> subject, 30 day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectRoot + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   retention,
	})
}
