package ports

// ShellPort spawns an interactive shell with a prefix activated and a
// resolved variable map. Activation mechanics are out of scope for the
// core; this stays a thin wrapper.
type ShellPort interface {
	Activate(prefix string, workingDir string, env map[string]string) error
}
