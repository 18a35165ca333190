package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleRoutineYAML = `name: sample
elements:
  - id: flair-1
    name: flair
    start: 0.0
    duration: 1.2
    positions:
      - {x: 0.45, y: 0.3, support: between_pommels}
      - {x: 0.55, y: 0.3, support: between_pommels}
    form:
      leg_position: together
      extension_ratio: 0.9
      amplitude: 0.85
  - id: travel-1
    name: travel
    start: 1.2
    duration: 2.0
phase_markers:
  - name: mount
    time: 0.0
`

func TestParseRoutine(t *testing.T) {
	r, err := ParseRoutine([]byte(sampleRoutineYAML))
	require.NoError(t, err)
	require.Equal(t, "sample", r.Name)
	require.Len(t, r.Elements, 2)
	require.Len(t, r.PhaseMarkers, 1)

	el, ok := r.Element("flair-1")
	require.True(t, ok)
	require.NotNil(t, el.Form)
	require.InDelta(t, 0.9, el.Form.ExtensionRatio, 1e-9)

	_, ok = r.Element("missing")
	require.False(t, ok)
}

func TestParseRoutine_Malformed(t *testing.T) {
	_, err := ParseRoutine([]byte("elements: [broken"))
	require.ErrorContains(t, err, "parsing routine")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		routine Routine
		wantErr string
	}{
		{
			name:    "no elements",
			routine: Routine{Name: "empty"},
			wantErr: "no elements",
		},
		{
			name: "empty id",
			routine: Routine{Name: "r", Elements: []RoutineElement{
				{Name: "flair", Duration: 1},
			}},
			wantErr: "empty id",
		},
		{
			name: "duplicate id",
			routine: Routine{Name: "r", Elements: []RoutineElement{
				{ID: "e1", Name: "flair", Duration: 1},
				{ID: "e1", Name: "travel", Duration: 1},
			}},
			wantErr: "duplicate element id",
		},
		{
			name: "empty name",
			routine: Routine{Name: "r", Elements: []RoutineElement{
				{ID: "e1", Duration: 1},
			}},
			wantErr: "empty name",
		},
		{
			name: "negative timing",
			routine: Routine{Name: "r", Elements: []RoutineElement{
				{ID: "e1", Name: "flair", Start: -0.5, Duration: 1},
			}},
			wantErr: "negative timing",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorContains(t, tc.routine.Validate(), tc.wantErr)
		})
	}
}

func TestRoutineDuration(t *testing.T) {
	r := Routine{Name: "r", Elements: []RoutineElement{
		{ID: "e2", Name: "travel", Start: 2, Duration: 3},
		{ID: "e1", Name: "flair", Start: 0.5, Duration: 1},
	}}
	require.InDelta(t, 4.5, r.Duration(), 1e-9, "earliest start to latest end, regardless of order")
}

func TestCenterX(t *testing.T) {
	el := RoutineElement{ID: "e1", Positions: []Position{{X: 0.2}, {X: 0.8}}}
	x, ok := el.CenterX()
	require.True(t, ok)
	require.InDelta(t, 0.5, x, 1e-9)

	_, ok = (&RoutineElement{ID: "e2"}).CenterX()
	require.False(t, ok)
}

func TestLoadRoutine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRoutineYAML), 0o644))

	r, err := LoadRoutine(path)
	require.NoError(t, err)
	require.Equal(t, "sample", r.Name)

	_, err = LoadRoutine(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
