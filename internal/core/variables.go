package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// ResolveVariables merges variable layers, most-specific first. A key
// present with a nil value is declared-but-unset and keeps falling
// through lower layers until a value is found; if the chain is
// exhausted the resolution fails listing every unresolved key.
func ResolveVariables(layers ...map[string]*string) (map[string]string, error) {
	resolved := map[string]string{}
	unset := map[string]struct{}{}

	// Walk from the lowest priority layer up so higher layers override.
	for i := len(layers) - 1; i >= 0; i-- {
		for key, value := range layers[i] {
			if value == nil {
				if _, ok := resolved[key]; !ok {
					unset[key] = struct{}{}
				}
				continue
			}
			resolved[key] = *value
			delete(unset, key)
		}
	}

	if len(unset) > 0 {
		missing := make([]string, 0, len(unset))
		for key := range unset {
			missing = append(missing, key)
		}
		sort.Strings(missing)
		msg := fmt.Sprintf(
			"the following variables do not have a default value and were not provided in the .env file or the environment: %s",
			strings.Join(missing, ", "))
		return nil, validationError(msg, nil)
	}
	return resolved, nil
}

// PrepareVariables resolves the runtime environment for a command or
// activation: the supplied layers (most-specific first), then the
// project's .env file, then the live process environment.
func PrepareVariables(projectDir string, layers ...map[string]*string) (map[string]string, error) {
	all := make([]map[string]*string, 0, len(layers)+2)
	all = append(all, layers...)
	all = append(all, dotenvLayer(projectDir), processEnvLayer())
	return ResolveVariables(all...)
}

func dotenvLayer(projectDir string) map[string]*string {
	values, err := godotenv.Read(filepath.Join(projectDir, ".env"))
	if err != nil {
		// A missing or unreadable .env file simply contributes nothing.
		return nil
	}
	layer := make(map[string]*string, len(values))
	for key, value := range values {
		v := value
		layer[key] = &v
	}
	return layer
}

func processEnvLayer() map[string]*string {
	environ := os.Environ()
	layer := make(map[string]*string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		v := value
		layer[key] = &v
	}
	return layer
}
