package adapters

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"conda-project/internal/ports"
)

// ShellAdapter spawns an interactive shell with the prefix activated.
// Activation stays minimal: the prefix's binary directories are
// prepended to PATH and CONDA_PREFIX is set, which is what activation
// scripts reduce to for project-local prefixes.
type ShellAdapter struct{}

func NewShellAdapter() ShellAdapter {
	return ShellAdapter{}
}

func (a ShellAdapter) Activate(prefix string, workingDir string, env map[string]string) error {
	shell, args := defaultShell()

	merged := make(map[string]string, len(env)+2)
	for key, value := range env {
		merged[key] = value
	}
	merged["CONDA_PREFIX"] = prefix
	merged["PATH"] = activationPath(prefix, merged["PATH"])

	fmt.Printf("## Project environment %s activated in a new shell.\n", filepath.Base(prefix))
	fmt.Println("## Exit this shell to de-activate.")

	cmd := exec.Command(shell, args...)
	cmd.Dir = workingDir
	cmd.Env = flattenEnv(merged)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("activated shell exited with an error").
			WithCause(err)
	}
	return nil
}

func defaultShell() (string, []string) {
	if runtime.GOOS == "windows" {
		shell := os.Getenv("COMSPEC")
		if shell == "" {
			shell = "cmd.exe"
		}
		return shell, nil
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, []string{"-i"}
}

func activationPath(prefix string, current string) string {
	var bins string
	if runtime.GOOS == "windows" {
		bins = prefix + string(os.PathListSeparator) + filepath.Join(prefix, "Scripts")
	} else {
		bins = filepath.Join(prefix, "bin")
	}
	if current == "" {
		current = os.Getenv("PATH")
	}
	if current == "" {
		return bins
	}
	return bins + string(os.PathListSeparator) + current
}

var _ ports.ShellPort = ShellAdapter{}
