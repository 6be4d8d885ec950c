package scenario_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/scenario"
)

func TestLoad(t *testing.T) {
	s, err := scenario.Load(filepath.Join("testdata", "collection.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "collection basics", s.Name)
	assert.Equal(t, scenario.TargetCollection, s.Target, "target defaults to collection")
	assert.Equal(t, []string{"alice", "bob"}, s.Owners)
	require.Len(t, s.Steps, 10)
	assert.Equal(t, scenario.OpAdd, s.Steps[0].Op)
	require.NotNil(t, s.Steps[0].Expect)
	assert.True(t, *s.Steps[0].Expect.OK)
}

func TestLoad_Errors(t *testing.T) {
	_, err := scenario.Load(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, oerrors.ErrNotFound)

	_, err = scenario.Load(filepath.Join("testdata", "unknown_field.yaml"))
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Contains(t, err.Error(), "owenr")
}

func TestDecode_Empty(t *testing.T) {
	_, err := scenario.Decode(nil)
	assert.Error(t, err)
}

func TestOwnerID(t *testing.T) {
	assert.Equal(t, scenario.OwnerID("alice"), scenario.OwnerID("alice"))
	assert.NotEqual(t, scenario.OwnerID("alice"), scenario.OwnerID("bob"))
	assert.Equal(t, 5, int(scenario.OwnerID("alice").Version()))
}
