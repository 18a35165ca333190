package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/validation"
)

func TestNewCommand_NonInteractiveScaffold(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := newNewCommand()
	var output bytes.Buffer
	cmd.SetIn(strings.NewReader("")) // not a TTY
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"warmup"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, output.String(), "create warmup.yaml")

	content, err := os.ReadFile("warmup.yaml")
	require.NoError(t, err)

	// The scaffold must be loadable and pass schema validation as written.
	schemaErrs := validation.ValidateRoutineBytes(content)
	assert.Empty(t, schemaErrs)

	routine, err := models.ParseRoutine(content)
	require.NoError(t, err)
	assert.Equal(t, "warmup", routine.Name)
	require.Len(t, routine.Elements, 1)
	assert.Equal(t, "element-1", routine.Elements[0].ID)
}

func TestNewCommand_ExistingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("warmup.yaml", []byte("name: old\n"), 0o644))

	cmd := newNewCommand()
	var output bytes.Buffer
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"warmup"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warmup.yaml already exists")

	// Existing content is untouched.
	content, readErr := os.ReadFile("warmup.yaml")
	require.NoError(t, readErr)
	assert.Equal(t, "name: old\n", string(content))
}

func TestNewCommand_InvalidName(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, name := range []string{"../escape", "a/b", `a\b`} {
		t.Run(name, func(t *testing.T) {
			cmd := newNewCommand()
			var output bytes.Buffer
			cmd.SetIn(strings.NewReader(""))
			cmd.SetOut(&output)
			cmd.SetErr(&output)
			cmd.SetArgs([]string{name})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid path characters")
		})
	}
}

func TestValidateRoutineName(t *testing.T) {
	require.NoError(t, validateRoutineName("morning-set"))
	require.Error(t, validateRoutineName(""))
	require.Error(t, validateRoutineName(".."))
	require.Error(t, validateRoutineName("nested/name"))
}
