package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/modkit/internal/testutil"
	"github.com/opmodel/modkit/internal/version"
)

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestVersionCmd_Execute(t *testing.T) {
	testutil.IsolateHome(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "modkit:")

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "version", "-o", "yaml")
		require.NoError(t, err)

		var info version.Info
		require.NoError(t, yaml.Unmarshal([]byte(out), &info))
		assert.Equal(t, version.Version, info.Version)
		assert.NotEmpty(t, info.Dependencies)
	})
}
