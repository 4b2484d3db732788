package stores

import "fmt"

// State is the lifecycle state of a store.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// OutcomeKind says where a mutation took effect.
type OutcomeKind int

const (
	// NotApplied means the mutation had no effect; Reason says why.
	NotApplied OutcomeKind = iota
	// AppliedRemote means the remote store accepted the mutation and the
	// local state reflects the remote answer.
	AppliedRemote
	// AppliedLocalFallback means the remote call failed and the mutation was
	// applied locally only.
	AppliedLocalFallback
	// AppliedLocal means remote sync does not apply (signed out, disabled,
	// or a record that only exists locally).
	AppliedLocal
)

func (k OutcomeKind) String() string {
	switch k {
	case NotApplied:
		return "not applied"
	case AppliedRemote:
		return "remote"
	case AppliedLocalFallback:
		return "local fallback"
	case AppliedLocal:
		return "local"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the tagged result of a mutation. For the caller both applied
// kinds are a success; the distinction is there for logs and tests.
type Outcome struct {
	Kind   OutcomeKind
	Reason error
}

// Applied reports whether the mutation is visible in the store.
func (o Outcome) Applied() bool {
	return o.Kind != NotApplied
}

func (o Outcome) String() string {
	if o.Reason != nil {
		return o.Kind.String() + ": " + o.Reason.Error()
	}
	return o.Kind.String()
}

// MigrationKind is the result of a one-time migration attempt.
type MigrationKind int

const (
	// MigrationNotApplicable: no identity, or remote sync is off.
	MigrationNotApplicable MigrationKind = iota
	// MigrationAlreadyAttempted: the attempt for this activation is spent.
	MigrationAlreadyAttempted
	// MigrationNoLocalData: nothing cached locally to move.
	MigrationNoLocalData
	// MigrationRemoteNotEmpty: the remote already has rows; nothing was sent.
	MigrationRemoteNotEmpty
	// MigrationDone: local rows were bulk-created remotely.
	MigrationDone
	// MigrationFailed: a remote call failed; local data is left in place.
	MigrationFailed
)

func (k MigrationKind) String() string {
	switch k {
	case MigrationNotApplicable:
		return "not applicable"
	case MigrationAlreadyAttempted:
		return "already attempted"
	case MigrationNoLocalData:
		return "no local data"
	case MigrationRemoteNotEmpty:
		return "remote not empty"
	case MigrationDone:
		return "done"
	case MigrationFailed:
		return "failed"
	}
	return fmt.Sprintf("MigrationKind(%d)", int(k))
}

// MigrationResult reports what a migration attempt did.
type MigrationResult struct {
	Kind  MigrationKind
	Count int
	Err   error
}
