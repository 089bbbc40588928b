package ports

import (
	"context"

	"conda-project/internal/types"
)

// SolveRequest carries the inputs for one external solver invocation.
type SolveRequest struct {
	// Sources are the environment source document paths, layered in
	// declaration order.
	Sources []string

	// Channels and Platforms are the effective overrides, already
	// defaulted by the lock coordinator.
	Channels  []string
	Platforms []string

	// CondarcPath is threaded explicitly per call instead of mutating
	// process-wide environment variables.
	CondarcPath string

	Verbose bool
}

// SolverPort wraps the external package-dependency solver. Solve
// produces a complete artifact in memory; writing it to disk is the
// caller's responsibility. ContentHash computes the staleness key for
// one platform from the effective dependency declaration.
type SolverPort interface {
	Solve(ctx context.Context, req SolveRequest) (types.LockArtifact, error)
	ContentHash(spec types.EffectiveSpec, platform string) string
}
