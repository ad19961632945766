package wizard

// Step is one page of a multi-page input form. The wizard fills in Index,
// First and Last at construction; callers only provide the Title.
type Step struct {
	Title string
	Index int
	First bool
	Last  bool
}

// Direction records which way the last transition request went.
type Direction int

const (
	DirectionIdle Direction = iota
	DirectionForward
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "idle"
	}
}

// Lifecycle is the coarse state of a wizard instance. Finished and Canceled
// are terminal until Reset.
type Lifecycle int

const (
	Active Lifecycle = iota
	Finished
	Canceled
)

func (l Lifecycle) String() string {
	switch l {
	case Finished:
		return "finished"
	case Canceled:
		return "canceled"
	default:
		return "active"
	}
}

// State is a snapshot of the wizard position.
type State struct {
	Index     int
	Direction Direction
	Lifecycle Lifecycle
}

// Outcome reports what a Forward or Back call did.
type Outcome int

const (
	// OutcomeIgnored: the wizard was not active, nothing happened.
	OutcomeIgnored Outcome = iota
	// OutcomeRejected: validation failed, fields were marked.
	OutcomeRejected
	OutcomeSwitched
	OutcomeFinished
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeSwitched:
		return "switched"
	case OutcomeFinished:
		return "finished"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "ignored"
	}
}

// FieldRef is an opaque reference to an input field, meaningful only to the
// form that owns it.
type FieldRef string

// ValidationResult is the set of fields that failed validation. Empty means valid.
type ValidationResult []FieldRef

// Valid reports whether no field failed.
func (r ValidationResult) Valid() bool {
	return len(r) == 0
}

// Add appends refs that are not already present.
func (r *ValidationResult) Add(refs ...FieldRef) {
	for _, ref := range refs {
		if !r.Contains(ref) {
			*r = append(*r, ref)
		}
	}
}

// Contains reports whether ref failed.
func (r ValidationResult) Contains(ref FieldRef) bool {
	for _, f := range r {
		if f == ref {
			return true
		}
	}
	return false
}
