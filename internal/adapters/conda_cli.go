package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"conda-project/internal/ports"
	"conda-project/internal/shared"
	"conda-project/internal/types"
)

// pipFreezeHashPattern extracts package name and sha256 from the
// output of "pip freeze" for packages installed from hashed wheels.
var pipFreezeHashPattern = regexp.MustCompile(`(?m)^([\w.-]+) @ .*sha256=(\w+)`)

// CondaCLIAdapter wraps the external package-manager executable. Every
// non-zero exit is translated into a domain error carrying the
// captured stderr.
type CondaCLIAdapter struct {
	Exe string

	// platform memoizes the conda info lookup for the process lifetime.
	platform string
}

func NewCondaCLIAdapter(exe string) *CondaCLIAdapter {
	if exe == "" {
		exe = os.Getenv("CONDA_EXE")
	}
	if exe == "" {
		exe = "conda"
	}
	return &CondaCLIAdapter{Exe: exe}
}

func (a *CondaCLIAdapter) CurrentPlatform(ctx context.Context) (string, error) {
	if a.platform != "" {
		return a.platform, nil
	}
	stdout, err := a.run(ctx, nil, false, "info", "--json")
	if err != nil {
		return "", err
	}
	var info struct {
		Platform string `json:"platform"`
	}
	if err := json.Unmarshal(stdout, &info); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse conda info output").
			WithCause(err)
	}
	a.platform = info.Platform
	return a.platform, nil
}

func (a *CondaCLIAdapter) CreatePrefix(ctx context.Context, req ports.CreatePrefixRequest) error {
	lines := req.SpecLines
	if len(lines) > 0 && strings.Contains(lines[0], "://") {
		lines = append([]string{"@EXPLICIT"}, lines...)
	}
	specFile, cleanup, err := writeTempFile("conda-project-spec-*.txt", lines)
	if err != nil {
		return err
	}
	defer cleanup()

	args := []string{"create", "-y", "--file", specFile, "-p", req.Prefix}
	if req.Force {
		args = append(args, "--force")
	}
	env := []string{"CONDARC=" + req.CondarcPath}
	if req.Subdir != "" {
		env = append(env, "CONDA_SUBDIR="+req.Subdir)
	}
	_, err = a.run(ctx, env, req.Verbose, args...)
	return err
}

func (a *CondaCLIAdapter) PipInstall(ctx context.Context, req ports.PipInstallRequest) error {
	reqFile, cleanup, err := writeTempFile("conda-project-requirements-*.txt", req.Requirements)
	if err != nil {
		return err
	}
	defer cleanup()

	args := []string{"run", "-p", req.Prefix, "pip", "install", "--no-deps", "-r", reqFile}
	_, err = a.run(ctx, []string{"CONDARC=" + req.CondarcPath}, req.Verbose, args...)
	return err
}

func (a *CondaCLIAdapter) RemovePrefix(ctx context.Context, prefix string, condarcPath string, verbose bool) error {
	_, err := a.run(ctx, []string{"CONDARC=" + condarcPath}, verbose, "env", "remove", "-y", "-p", prefix)
	return err
}

func (a *CondaCLIAdapter) Run(ctx context.Context, req ports.RunRequest) error {
	args := []string{"run", "-p", req.Prefix, "--cwd", req.WorkingDir, "--no-capture-output"}
	args = append(args, strings.Fields(req.Cmd)...)
	args = append(args, req.ExtraArgs...)

	cmd := exec.CommandContext(ctx, a.Exe, args...)
	cmd.Env = flattenEnv(req.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = req.WorkingDir
	log.Debug().Str("exe", a.Exe).Strs("args", args).Msg("running command")
	if err := cmd.Run(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("command %q failed", req.Cmd)).
			WithCause(err)
	}
	return nil
}

func (a *CondaCLIAdapter) PipList(ctx context.Context, prefix string) ([]types.InstalledPackage, error) {
	stdout, err := a.run(ctx, nil, false, "run", "-p", prefix, "pip", "list", "--format=json")
	if err != nil {
		if isPipMissing(err) {
			return nil, nil
		}
		return nil, err
	}
	var listed []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(stdout, &listed); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse pip list output").
			WithCause(err)
	}
	var packages []types.InstalledPackage
	for _, entry := range listed {
		packages = append(packages, types.InstalledPackage{
			Name:    shared.NormalizePipName(entry.Name),
			Version: entry.Version,
			Manager: types.ManagerPip,
		})
	}
	return packages, nil
}

func (a *CondaCLIAdapter) PipFreezeHashes(ctx context.Context, prefix string) (map[string]string, error) {
	stdout, err := a.run(ctx, nil, false, "run", "-p", prefix, "pip", "freeze")
	if err != nil {
		if isPipMissing(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	hashes := map[string]string{}
	for _, match := range pipFreezeHashPattern.FindAllStringSubmatch(string(stdout), -1) {
		hashes[shared.NormalizePipName(match[1])] = match[2]
	}
	return hashes, nil
}

func (a *CondaCLIAdapter) run(ctx context.Context, extraEnv []string, verbose bool, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, a.Exe, args...)
	cmd.Env = append(os.Environ(), extraEnv...)

	var stdout, stderr bytes.Buffer
	if verbose {
		cmd.Stdout = os.Stdout
	} else {
		cmd.Stdout = &stdout
	}
	cmd.Stderr = &stderr

	log.Debug().Str("exe", a.Exe).Strs("args", args).Msg("invoking conda")
	if err := cmd.Run(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to run: %s %s\n%s",
				a.Exe, strings.Join(args, " "), strings.TrimSpace(stderr.String()))).
			WithCause(err)
	}
	return stdout.Bytes(), nil
}

func isPipMissing(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "pip: command not found") ||
		strings.Contains(msg, "'pip' is not recognized")
}

func writeTempFile(pattern string, lines []string) (string, func(), error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temporary file").
			WithCause(err)
	}
	path := file.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := file.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		_ = file.Close()
		cleanup()
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write temporary file").
			WithCause(err)
	}
	if err := file.Close(); err != nil {
		cleanup()
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close temporary file").
			WithCause(err)
	}
	return path, cleanup, nil
}

func flattenEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for key, value := range env {
		out = append(out, key+"="+value)
	}
	return out
}

var _ ports.CondaPort = (*CondaCLIAdapter)(nil)
