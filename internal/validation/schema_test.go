package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validRoutineYAML = `name: sample
elements:
  - id: flair-1
    name: flair
    start: 0.0
    duration: 1.2
    positions:
      - {x: 0.45, y: 0.3, support: between_pommels}
    form:
      leg_position: together
      extension_ratio: 0.9
      amplitude: 0.85
phase_markers:
  - name: mount
    time: 0.0
`

const invalidRoutineYAML = `name: sample
elements:
  - id: flair-1
    start: -1.0
    duration: 1.2
    form:
      leg_position: sideways
`

const validTaxonomyYAML = `name: mini
concepts:
  - id: eg.circles
    axis: element_group
    label: Circles
    rules:
      - id: eg.circles.name
        kind: name
        weight: 0.9
        config:
          tokens: [circle]
relations:
  - from: eg.circles
    to: eg.circles
    kind: excludes
`

const invalidTaxonomyYAML = `name: mini
concepts:
  - id: eg.circles
    axis: diagonal
    rules:
      - id: r1
        kind: telepathy
        weight: 2.0
`

func TestValidateRoutineBytes_Valid(t *testing.T) {
	require.Empty(t, ValidateRoutineBytes([]byte(validRoutineYAML)))
}

func TestValidateRoutineBytes_Invalid(t *testing.T) {
	errs := ValidateRoutineBytes([]byte(invalidRoutineYAML))
	require.NotEmpty(t, errs)
	// Missing name, negative start, and a bad leg_position enum all surface.
	require.GreaterOrEqual(t, len(errs), 3)
}

func TestValidateRoutineBytes_MalformedYAML(t *testing.T) {
	errs := ValidateRoutineBytes([]byte("elements: [broken"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "YAML parse error")
}

func TestValidateTaxonomyBytes_Valid(t *testing.T) {
	require.Empty(t, ValidateTaxonomyBytes([]byte(validTaxonomyYAML)))
}

func TestValidateTaxonomyBytes_Invalid(t *testing.T) {
	errs := ValidateTaxonomyBytes([]byte(invalidTaxonomyYAML))
	require.NotEmpty(t, errs)
}

func TestValidateRoutineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validRoutineYAML), 0o644))

	errs, err := ValidateRoutineFile(path)
	require.NoError(t, err)
	require.Empty(t, errs)

	_, err = ValidateRoutineFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateTaxonomyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validTaxonomyYAML), 0o644))

	errs, err := ValidateTaxonomyFile(path)
	require.NoError(t, err)
	require.Empty(t, errs)
}
