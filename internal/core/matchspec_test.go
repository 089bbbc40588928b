package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondaSpecName(t *testing.T) {
	cases := map[string]string{
		"numpy":                  "numpy",
		"python=3.10":            "python",
		"numpy>=1.21,<2":         "numpy",
		"conda-forge::numpy":     "numpy",
		"conda-forge::pytorch=2": "pytorch",
		"numpy[build=py310*]":    "numpy",
		"  scipy ":               "scipy",
		"python !=3.9":           "python",
	}
	for spec, want := range cases {
		assert.Equal(t, want, CondaSpecName(spec), "spec %q", spec)
	}
}

func TestPipSpecDetection(t *testing.T) {
	assert.True(t, IsPipSpec("@pip::requests"))
	assert.True(t, IsPipSpec("  @pip::requests>=2.28"))
	assert.False(t, IsPipSpec("requests"))
	assert.Equal(t, "requests>=2.28", StripPipPrefix("@pip::requests>=2.28"))
}

func TestPipRequirementName(t *testing.T) {
	cases := map[string]string{
		"requests":                "requests",
		"requests>=2.28":          "requests",
		"Typing_Extensions==4.4":  "typing-extensions",
		"zope.interface":          "zope-interface",
		"pkg[extra]>=1":           "pkg",
		"pkg @ https://x/pkg.whl": "pkg",
		"pkg; python_version>'3'": "pkg",
	}
	for req, want := range cases {
		assert.Equal(t, want, PipRequirementName(req), "req %q", req)
	}
}

func TestValidateCondaSpec(t *testing.T) {
	assert.NoError(t, ValidateCondaSpec("numpy>=1.21"))
	assert.Error(t, ValidateCondaSpec(""))
	assert.Error(t, ValidateCondaSpec(">=1.21"))
}

func TestValidatePipRequirement(t *testing.T) {
	assert.NoError(t, ValidatePipRequirement("requests"))
	assert.NoError(t, ValidatePipRequirement("requests>=2.28,<3"))
	assert.NoError(t, ValidatePipRequirement("pkg @ https://example.com/pkg.whl"))
	assert.Error(t, ValidatePipRequirement(""))
	assert.Error(t, ValidatePipRequirement("requests>=banana"))
}
