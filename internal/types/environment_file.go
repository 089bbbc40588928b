package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Dependency is one entry of an environment file's dependencies list.
// Either Spec holds a conda match spec, or Pip holds the requirement
// strings of the single embedded pip block.
type Dependency struct {
	Spec string
	Pip  []string
}

// IsPipBlock reports whether this entry is the embedded pip block.
func (d Dependency) IsPipBlock() bool {
	return d.Pip != nil
}

// EnvironmentFile is the parsed form of an environment.yml source
// document. Dependency order and channel order are preserved; channels
// are deduplicated on load.
//
// At most one pip block appears in Dependencies, at the position it
// was first inserted.
type EnvironmentFile struct {
	Name         string            `yaml:"name,omitempty"`
	Channels     []string          `yaml:"channels,omitempty"`
	Dependencies []Dependency      `yaml:"dependencies"`
	Variables    map[string]string `yaml:"variables,omitempty"`
	Platforms    []string          `yaml:"platforms,omitempty"`
	Prefix       string            `yaml:"prefix,omitempty"`
}

func (d Dependency) MarshalYAML() (interface{}, error) {
	if d.IsPipBlock() {
		return map[string][]string{"pip": d.Pip}, nil
	}
	return d.Spec, nil
}

func (d *Dependency) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&d.Spec)
	case yaml.MappingNode:
		var block map[string][]string
		if err := node.Decode(&block); err != nil {
			return err
		}
		pip, ok := block["pip"]
		if !ok || len(block) != 1 {
			return fmt.Errorf("the dependencies key contains an invalid map entry, only \"pip:\" is allowed")
		}
		if pip == nil {
			pip = []string{}
		}
		d.Pip = pip
		return nil
	default:
		return fmt.Errorf("invalid dependencies entry at line %d", node.Line)
	}
}

// PipBlock returns the embedded pip block, or nil if the document has
// none.
func (e *EnvironmentFile) PipBlock() *Dependency {
	for i := range e.Dependencies {
		if e.Dependencies[i].IsPipBlock() {
			return &e.Dependencies[i]
		}
	}
	return nil
}

// CondaSpecs returns the conda match spec strings in declaration order.
func (e *EnvironmentFile) CondaSpecs() []string {
	var specs []string
	for _, dep := range e.Dependencies {
		if !dep.IsPipBlock() {
			specs = append(specs, dep.Spec)
		}
	}
	return specs
}

// PipSpecs returns the pip requirement strings in declaration order.
func (e *EnvironmentFile) PipSpecs() []string {
	if block := e.PipBlock(); block != nil {
		return block.Pip
	}
	return nil
}

// DedupeChannels drops repeated channels while preserving the first
// occurrence order.
func DedupeChannels(channels []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, channel := range channels {
		if _, ok := seen[channel]; ok {
			continue
		}
		seen[channel] = struct{}{}
		out = append(out, channel)
	}
	return out
}
