package ports

import (
	"context"
	"time"

	"newsdigest/internal/domain"
	"newsdigest/internal/runstate"
)

// Stage is one pass of the enrichment chain: it reads the full current
// article set from the run state and writes an augmented copy back.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *runstate.State) error
}

// Assembler folds the most-enriched article set plus aggregate statistics
// into one rendered digest document.
type Assembler interface {
	Assemble(state *runstate.State, now time.Time) (string, error)
}

// Deliverer transmits a rendered digest to the recipient list.
type Deliverer interface {
	Name() string
	Deliver(ctx context.Context, digest string, recipients []string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// CredibilityTable looks up the static reference entry for a source display
// name; absent keys map to the fixed Unknown default.
type CredibilityTable interface {
	Lookup(source string) domain.SourceCredibility
}
