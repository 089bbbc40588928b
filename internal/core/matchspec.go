package core

import (
	"fmt"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"

	"conda-project/internal/shared"
)

// pipSpecPrefix marks a dependency argument as a foreign-manager (pip)
// requirement, e.g. "@pip::requests>=2.28".
const pipSpecPrefix = "@pip::"

// IsPipSpec reports whether a user-supplied dependency argument targets
// the pip sub-list.
func IsPipSpec(spec string) bool {
	return strings.HasPrefix(strings.TrimSpace(spec), pipSpecPrefix)
}

// StripPipPrefix removes the "@pip::" marker from a dependency
// argument.
func StripPipPrefix(spec string) string {
	return strings.TrimPrefix(strings.TrimSpace(spec), pipSpecPrefix)
}

// CondaSpecName extracts the package name from a conda match spec.
// Channel prefixes ("conda-forge::numpy"), version pins
// ("python=3.10"), constraint expressions ("numpy>=1.21,<2") and
// bracket syntax are all stripped.
func CondaSpecName(spec string) string {
	s := strings.TrimSpace(spec)
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.IndexAny(s, "=<>!~ ["); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// PipRequirementName extracts the PEP 503 normalized project name from
// a pip requirement string.
func PipRequirementName(req string) string {
	s := strings.TrimSpace(req)
	if i := strings.IndexAny(s, "=<>!~;@ ["); i >= 0 {
		s = s[:i]
	}
	return shared.NormalizePipName(s)
}

// ValidateCondaSpec rejects match specs with no extractable package
// name.
func ValidateCondaSpec(spec string) error {
	if CondaSpecName(spec) == "" {
		return validationError(fmt.Sprintf("invalid dependency spec %q", spec), nil)
	}
	return nil
}

// ValidatePipRequirement checks that a pip requirement has a name and,
// when a version expression is present, that it parses as a PEP 440
// specifier set.
func ValidatePipRequirement(req string) error {
	s := strings.TrimSpace(req)
	if PipRequirementName(s) == "" {
		return validationError(fmt.Sprintf("invalid pip requirement %q", req), nil)
	}
	// Direct references and environment markers are passed through to
	// the solver unchecked.
	if strings.ContainsAny(s, ";@") {
		return nil
	}
	if i := strings.IndexAny(s, "=<>!~"); i >= 0 {
		if _, err := pep440.NewSpecifiers(s[i:]); err != nil {
			return validationError(fmt.Sprintf("invalid pip requirement %q", req), err)
		}
	}
	return nil
}
