package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FlagPrecedence(t *testing.T) {
	t.Setenv("MODKIT_MATCH", "exact")

	result := Resolve(ResolveOptions{
		Key:         "match",
		FlagValue:   "assignable",
		EnvVar:      "MODKIT_MATCH",
		ConfigValue: "exact",
		Default:     DefaultMatch,
	})

	assert.Equal(t, "assignable", result.Value)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "exact", result.Shadowed[SourceEnv])
	assert.Equal(t, "exact", result.Shadowed[SourceConfig])
	assert.Equal(t, DefaultMatch, result.Shadowed[SourceDefault])
}

func TestResolve_EnvPrecedence(t *testing.T) {
	t.Setenv("MODKIT_CLEANUP", "legacy")

	result := Resolve(ResolveOptions{
		Key:         "cleanup",
		EnvVar:      "MODKIT_CLEANUP",
		ConfigValue: "closure",
	})

	assert.Equal(t, "legacy", result.Value)
	assert.Equal(t, SourceEnv, result.Source)
	assert.Equal(t, "closure", result.Shadowed[SourceConfig])
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolve_ConfigFallback(t *testing.T) {
	t.Setenv("MODKIT_CLEANUP", "")

	result := Resolve(ResolveOptions{
		Key:         "cleanup",
		EnvVar:      "MODKIT_CLEANUP",
		ConfigValue: "legacy",
	})

	assert.Equal(t, "legacy", result.Value)
	assert.Equal(t, SourceConfig, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestResolve_DefaultAndNothing(t *testing.T) {
	result := Resolve(ResolveOptions{Key: "match", Default: DefaultMatch})
	assert.Equal(t, DefaultMatch, result.Value)
	assert.Equal(t, SourceDefault, result.Source)

	result = Resolve(ResolveOptions{Key: "match"})
	assert.Empty(t, result.Value)
	assert.Empty(t, result.Source)
}

func TestResolveConfigPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("MODKIT_CONFIG", "/env/config.yaml")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: "/flag/config.yaml"})
		require.NoError(t, err)

		assert.Equal(t, "/flag/config.yaml", result.Value)
		assert.Equal(t, SourceFlag, result.Source)
		assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])
		assert.Contains(t, result.Shadowed[SourceDefault], ".modkit")
	})

	t.Run("env over default", func(t *testing.T) {
		t.Setenv("MODKIT_CONFIG", "/env/config.yaml")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{})
		require.NoError(t, err)

		assert.Equal(t, "/env/config.yaml", result.Value)
		assert.Equal(t, SourceEnv, result.Source)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("MODKIT_CONFIG", "")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{})
		require.NoError(t, err)

		assert.Equal(t, SourceDefault, result.Source)
		assert.Empty(t, result.Shadowed)
	})
}
