package core

import (
	"github.com/rs/zerolog/log"

	"conda-project/internal/shared"
	"conda-project/internal/types"
)

// DependencySpecSet applies name-keyed add, replace, and remove
// operations to one environment source document. Entry positions are
// preserved: replacing a spec keeps its slot, new specs append, and the
// single pip block stays wherever it was first inserted.
type DependencySpecSet struct {
	doc types.EnvironmentFile
}

func NewDependencySpecSet(doc types.EnvironmentFile) *DependencySpecSet {
	return &DependencySpecSet{doc: doc}
}

// Document returns the current state of the wrapped document.
func (s *DependencySpecSet) Document() types.EnvironmentFile {
	return s.doc
}

// Add applies the requested specs, partitioned by target manager, and
// merges the channel list duplicate-free. Specs whose package name is
// already declared replace the existing entry in place.
func (s *DependencySpecSet) Add(specs []string, channels []string) error {
	var condaToAdd []string
	var pipToAdd []string

	for _, spec := range specs {
		if IsPipSpec(spec) {
			req := StripPipPrefix(spec)
			if err := ValidatePipRequirement(req); err != nil {
				return err
			}
			if !s.replacePip(PipRequirementName(req), req) {
				pipToAdd = append(pipToAdd, req)
			}
			continue
		}
		if err := ValidateCondaSpec(spec); err != nil {
			return err
		}
		if !s.replaceConda(CondaSpecName(spec), spec) {
			condaToAdd = append(condaToAdd, spec)
		}
	}

	for _, spec := range condaToAdd {
		s.doc.Dependencies = append(s.doc.Dependencies, types.Dependency{Spec: spec})
	}
	if len(pipToAdd) > 0 {
		s.addPipRequirements(pipToAdd)
	}

	if len(channels) > 0 {
		s.doc.Channels = types.DedupeChannels(append(s.doc.Channels, channels...))
	}
	return nil
}

// Remove deletes the named packages from whichever manager's list
// currently holds them. Names that are not present are a no-op.
func (s *DependencySpecSet) Remove(specs []string) {
	for _, spec := range specs {
		if IsPipSpec(spec) {
			s.removePip(PipRequirementName(StripPipPrefix(spec)))
			continue
		}
		if s.removeConda(CondaSpecName(spec)) {
			continue
		}
		s.removePip(shared.NormalizePipName(CondaSpecName(spec)))
	}
}

func (s *DependencySpecSet) replaceConda(name string, spec string) bool {
	for i, dep := range s.doc.Dependencies {
		if dep.IsPipBlock() {
			continue
		}
		if CondaSpecName(dep.Spec) == name {
			s.doc.Dependencies[i].Spec = spec
			return true
		}
	}
	return false
}

func (s *DependencySpecSet) replacePip(name string, req string) bool {
	block := s.doc.PipBlock()
	if block == nil {
		return false
	}
	for i, existing := range block.Pip {
		if PipRequirementName(existing) == name {
			block.Pip[i] = req
			return true
		}
	}
	return false
}

func (s *DependencySpecSet) addPipRequirements(reqs []string) {
	if !s.hasCondaDep("pip") {
		log.Warn().Msg("pip-installed dependencies declared without a conda pip dependency, adding one")
		s.doc.Dependencies = append(s.doc.Dependencies, types.Dependency{Spec: "pip"})
	}
	if block := s.doc.PipBlock(); block != nil {
		block.Pip = append(block.Pip, reqs...)
		return
	}
	s.doc.Dependencies = append(s.doc.Dependencies, types.Dependency{Pip: reqs})
}

func (s *DependencySpecSet) hasCondaDep(name string) bool {
	for _, dep := range s.doc.Dependencies {
		if !dep.IsPipBlock() && CondaSpecName(dep.Spec) == name {
			return true
		}
	}
	return false
}

func (s *DependencySpecSet) removeConda(name string) bool {
	for i, dep := range s.doc.Dependencies {
		if dep.IsPipBlock() {
			continue
		}
		if CondaSpecName(dep.Spec) == name {
			s.doc.Dependencies = append(s.doc.Dependencies[:i], s.doc.Dependencies[i+1:]...)
			return true
		}
	}
	return false
}

func (s *DependencySpecSet) removePip(name string) bool {
	block := s.doc.PipBlock()
	if block == nil {
		return false
	}
	for i, existing := range block.Pip {
		if PipRequirementName(existing) == name {
			block.Pip = append(block.Pip[:i], block.Pip[i+1:]...)
			return true
		}
	}
	return false
}
