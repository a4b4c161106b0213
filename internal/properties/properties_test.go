package properties

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Quason/scene-classification/internal/classification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvUsesFirstExistingFile(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("REFLECTANCE_SCALE=0.001\n"), 0o644))
	t.Setenv("REFLECTANCE_SCALE", "")
	os.Unsetenv("REFLECTANCE_SCALE")

	got := LoadEnv(filepath.Join(dir, "missing.env"), env)
	assert.Equal(t, env, got)
	assert.Equal(t, 0.001, ReflectanceScale())
}

func TestLoadEnvNothingFound(t *testing.T) {
	assert.Empty(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestReflectanceScale(t *testing.T) {
	tests := []struct {
		env  string
		want float64
	}{
		{"", 1e-4},
		{"0.0001", 1e-4},
		{"1", 1},
		{"abc", 1e-4},
		{"-1", 1e-4},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("REFLECTANCE_SCALE", tt.env)
			assert.Equal(t, tt.want, ReflectanceScale())
		})
	}
}

func TestEveryClassHasAColor(t *testing.T) {
	for _, code := range classification.Classes {
		assert.Contains(t, ClassColors, code, classification.ClassName(code))
	}
}
