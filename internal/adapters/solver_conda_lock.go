package adapters

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"conda-project/internal/ports"
	"conda-project/internal/shared"
	"conda-project/internal/types"
)

// CondaLockSolverAdapter drives the external conda-lock executable and
// converts its output into a lock artifact. Content hashes are always
// computed locally so staleness comparison stays closed under this
// tool regardless of the solver's own hashing.
type CondaLockSolverAdapter struct {
	Exe string
}

func NewCondaLockSolverAdapter(exe string) CondaLockSolverAdapter {
	if exe == "" {
		exe = "conda-lock"
	}
	return CondaLockSolverAdapter{Exe: exe}
}

// condaLockOutput is the subset of the solver's lock file this tool
// consumes; metadata is restamped by the lock coordinator.
type condaLockOutput struct {
	Package []struct {
		Name     string        `yaml:"name"`
		Version  string        `yaml:"version"`
		Manager  types.Manager `yaml:"manager"`
		Platform string        `yaml:"platform"`
		URL      string        `yaml:"url"`
		Hash     struct {
			SHA256 string `yaml:"sha256"`
			MD5    string `yaml:"md5"`
		} `yaml:"hash"`
		Optional bool   `yaml:"optional"`
		Category string `yaml:"category"`
	} `yaml:"package"`
}

func (a CondaLockSolverAdapter) Solve(ctx context.Context, req ports.SolveRequest) (types.LockArtifact, error) {
	scratch, err := os.MkdirTemp("", "conda-project-solve-*")
	if err != nil {
		return types.LockArtifact{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create solver scratch directory").
			WithCause(err)
	}
	defer os.RemoveAll(scratch)

	lockfile := filepath.Join(scratch, "conda-lock.yml")
	args := []string{"lock", "--kind", "lock", "--lockfile", lockfile}
	for _, source := range req.Sources {
		args = append(args, "--file", source)
	}
	for _, platform := range req.Platforms {
		args = append(args, "--platform", platform)
	}
	for _, channel := range req.Channels {
		args = append(args, "--channel", channel)
	}

	cmd := exec.CommandContext(ctx, a.Exe, args...)
	cmd.Env = append(os.Environ(), "CONDARC="+req.CondarcPath)
	log.Debug().Str("exe", a.Exe).Strs("args", args).Msg("invoking solver")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return types.LockArtifact{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("solver failed").
			WithCause(shared.CommandError(output, err))
	}

	data, err := os.ReadFile(lockfile)
	if err != nil {
		return types.LockArtifact{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("solver produced no lock file").
			WithCause(err)
	}
	var parsed condaLockOutput
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return types.LockArtifact{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse solver output").
			WithCause(err)
	}

	artifact := types.LockArtifact{}
	for _, pkg := range parsed.Package {
		artifact.Packages = append(artifact.Packages, types.LockedPackage{
			Name:     pkg.Name,
			Version:  pkg.Version,
			Manager:  pkg.Manager,
			Platform: pkg.Platform,
			URL:      pkg.URL,
			Hash:     types.LockHash{SHA256: pkg.Hash.SHA256, MD5: pkg.Hash.MD5},
			Optional: pkg.Optional || (pkg.Category != "" && pkg.Category != "main"),
		})
	}
	return artifact, nil
}

// ContentHash computes the staleness key for one platform from the
// canonical rendering of the effective dependency declaration.
func (a CondaLockSolverAdapter) ContentHash(spec types.EffectiveSpec, platform string) string {
	var builder strings.Builder
	builder.WriteString("platform:")
	builder.WriteString(platform)
	builder.WriteString("\nchannels:\n")
	for _, channel := range spec.Channels {
		builder.WriteString(channel)
		builder.WriteString("\n")
	}
	builder.WriteString("dependencies:\n")
	for _, dep := range spec.CondaSpecs {
		builder.WriteString(dep)
		builder.WriteString("\n")
	}
	builder.WriteString("pip:\n")
	for _, dep := range spec.PipSpecs {
		builder.WriteString(dep)
		builder.WriteString("\n")
	}
	sum := xxhash.Sum64String(builder.String())
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], sum)
	return hex.EncodeToString(raw[:])
}

var _ ports.SolverPort = CondaLockSolverAdapter{}
