package app

import (
	"context"
	"os"

	"conda-project/internal/adapters"
	"conda-project/internal/core"
	"conda-project/internal/ports"
)

// Config carries the executable and path overrides resolved by the
// CLI layer (flags, CONDA_PROJECT_* environment, config file).
type Config struct {
	CondaExe  string
	SolverExe string
	EnvsPath  []string
}

type Service struct {
	Specs    ports.SpecSourcePort
	Locks    ports.LockfileStorePort
	Solver   ports.SolverPort
	Conda    ports.CondaPort
	Prefixes ports.PrefixDataPort
	Shell    ports.ShellPort

	EnvsPathCandidates []string
}

func NewService(cfg Config) Service {
	return Service{
		Specs:              adapters.NewSpecFileAdapter(),
		Locks:              adapters.NewLockfileStoreAdapter(),
		Solver:             adapters.NewCondaLockSolverAdapter(cfg.SolverExe),
		Conda:              adapters.NewCondaCLIAdapter(cfg.CondaExe),
		Prefixes:           adapters.NewPrefixDataAdapter(),
		Shell:              adapters.NewShellAdapter(),
		EnvsPathCandidates: cfg.EnvsPath,
	}
}

func (s Service) dependencies() core.Dependencies {
	return core.Dependencies{
		Specs:              s.Specs,
		Locks:              s.Locks,
		Solver:             s.Solver,
		Conda:              s.Conda,
		Prefixes:           s.Prefixes,
		Shell:              s.Shell,
		EnvsPathCandidates: s.EnvsPathCandidates,
	}
}

func (s Service) load(ctx context.Context, directory string) (*core.Project, error) {
	if directory == "" {
		directory, _ = os.Getwd()
	}
	return s.dependencies().LoadProject(ctx, directory)
}
