package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EnvironmentDecl binds an environment name to its ordered list of
// source document paths. The first source is the only one mutated by
// add/remove.
type EnvironmentDecl struct {
	Name    string
	Sources []string
}

// CommandDecl is one named command of the project file. In yaml a
// command is either a bare action string or a map with cmd,
// environment, and variables keys.
type CommandDecl struct {
	Name        string
	Cmd         string
	Environment string
	// Variables are command-level overrides; a nil value means the
	// variable is declared but must be resolved by a lower layer.
	Variables map[string]*string
}

// ProjectFile is the parsed conda-project.yml declaration. Environment
// and command declaration order is significant: the first entry of each
// is the project default.
type ProjectFile struct {
	Name         string
	Environments []EnvironmentDecl
	// Variables are project-wide shared variables; nil values have no
	// default and must be supplied downstream.
	Variables map[string]*string
	Commands  []CommandDecl
}

// Environment returns the declaration for name, or false when the
// project does not declare it.
func (p ProjectFile) Environment(name string) (EnvironmentDecl, bool) {
	for _, env := range p.Environments {
		if env.Name == name {
			return env, true
		}
	}
	return EnvironmentDecl{}, false
}

// Command returns the declaration for name, or false when the project
// does not declare it.
func (p ProjectFile) Command(name string) (CommandDecl, bool) {
	for _, cmd := range p.Commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return CommandDecl{}, false
}

type projectFileYaml struct {
	Name         string             `yaml:"name"`
	Environments yaml.Node          `yaml:"environments"`
	Variables    map[string]*string `yaml:"variables,omitempty"`
	Commands     yaml.Node          `yaml:"commands,omitempty"`
}

func (p *ProjectFile) UnmarshalYAML(node *yaml.Node) error {
	var raw projectFileYaml
	if err := node.Decode(&raw); err != nil {
		return err
	}
	p.Name = raw.Name
	p.Variables = raw.Variables

	p.Environments = nil
	if raw.Environments.Kind != 0 {
		if raw.Environments.Kind != yaml.MappingNode {
			return fmt.Errorf("environments must be a map of name to source file list")
		}
		for i := 0; i < len(raw.Environments.Content); i += 2 {
			key := raw.Environments.Content[i]
			value := raw.Environments.Content[i+1]
			var sources []string
			switch value.Kind {
			case yaml.ScalarNode:
				var single string
				if err := value.Decode(&single); err != nil {
					return err
				}
				sources = []string{single}
			default:
				if err := value.Decode(&sources); err != nil {
					return err
				}
			}
			p.Environments = append(p.Environments, EnvironmentDecl{
				Name:    key.Value,
				Sources: sources,
			})
		}
	}

	p.Commands = nil
	if raw.Commands.Kind != 0 {
		if raw.Commands.Kind != yaml.MappingNode {
			return fmt.Errorf("commands must be a map of name to command")
		}
		for i := 0; i < len(raw.Commands.Content); i += 2 {
			key := raw.Commands.Content[i]
			value := raw.Commands.Content[i+1]
			decl := CommandDecl{Name: key.Value}
			switch value.Kind {
			case yaml.ScalarNode:
				if err := value.Decode(&decl.Cmd); err != nil {
					return err
				}
			case yaml.MappingNode:
				var body struct {
					Cmd         string             `yaml:"cmd"`
					Environment string             `yaml:"environment,omitempty"`
					Variables   map[string]*string `yaml:"variables,omitempty"`
				}
				if err := value.Decode(&body); err != nil {
					return err
				}
				decl.Cmd = body.Cmd
				decl.Environment = body.Environment
				decl.Variables = body.Variables
			default:
				return fmt.Errorf("invalid command %q at line %d", key.Value, value.Line)
			}
			p.Commands = append(p.Commands, decl)
		}
	}
	return nil
}

func (p ProjectFile) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	appendScalar := func(parent *yaml.Node, value string) {
		parent.Content = append(parent.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: value,
		})
	}

	appendScalar(root, "name")
	appendScalar(root, p.Name)

	envs := &yaml.Node{Kind: yaml.MappingNode}
	for _, env := range p.Environments {
		appendScalar(envs, env.Name)
		sources := &yaml.Node{Kind: yaml.SequenceNode}
		for _, source := range env.Sources {
			appendScalar(sources, source)
		}
		envs.Content = append(envs.Content, sources)
	}
	appendScalar(root, "environments")
	root.Content = append(root.Content, envs)

	if len(p.Variables) > 0 {
		vars := &yaml.Node{}
		if err := vars.Encode(p.Variables); err != nil {
			return nil, err
		}
		appendScalar(root, "variables")
		root.Content = append(root.Content, vars)
	}

	if len(p.Commands) > 0 {
		cmds := &yaml.Node{Kind: yaml.MappingNode}
		for _, cmd := range p.Commands {
			appendScalar(cmds, cmd.Name)
			if cmd.Environment == "" && len(cmd.Variables) == 0 {
				appendScalar(cmds, cmd.Cmd)
				continue
			}
			body := &yaml.Node{}
			if err := body.Encode(struct {
				Cmd         string             `yaml:"cmd"`
				Environment string             `yaml:"environment,omitempty"`
				Variables   map[string]*string `yaml:"variables,omitempty"`
			}{Cmd: cmd.Cmd, Environment: cmd.Environment, Variables: cmd.Variables}); err != nil {
				return nil, err
			}
			cmds.Content = append(cmds.Content, body)
		}
		appendScalar(root, "commands")
		root.Content = append(root.Content, cmds)
	}

	return root, nil
}
