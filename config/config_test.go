package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
animate: true
animationRate: 40
width: 640
gridOptions:
  fadeOut: true
  ticks: [10, 2]
axisOptions:
  show: false
viewerOptions:
  initialPosition: [1, 2, 3]
  zoomSpeed: 0.5
solids:
  - models/part.gltf
  - /abs/other.gltf
watch: true
`

const tomlConfig = `
animate = true
animationRate = 40
width = 640
solids = ["models/part.gltf"]

[gridOptions]
fadeOut = true
ticks = [10.0, 2.0]

[axisOptions]
show = false

[viewerOptions]
initialPosition = [1.0, 2.0, 3.0]
zoomSpeed = 0.5
`

func assertOverrides(t *testing.T, o viewer.Options) {
	t.Helper()
	defaults := viewer.DefaultOptions()

	assert.True(t, o.Animate)
	assert.Equal(t, 40*time.Millisecond, o.AnimationRate)
	assert.Equal(t, 640, o.Width)
	assert.Equal(t, defaults.Height, o.Height)

	assert.True(t, o.Grid.FadeOut)
	assert.Equal(t, [2]float32{10, 2}, o.Grid.Ticks)
	assert.Equal(t, defaults.Grid.Color, o.Grid.Color)
	assert.Equal(t, defaults.Grid.Size, o.Grid.Size)
	assert.True(t, o.Grid.Show)

	assert.False(t, o.Axis.Show)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, o.Camera.InitialPosition)
	assert.Equal(t, float32(0.5), o.Camera.ZoomSpeed)
	assert.Equal(t, defaults.Camera.PanSpeed, o.Camera.PanSpeed)
}

func TestDecodeYAML(t *testing.T) {
	f, err := Decode(strings.NewReader(yamlConfig), YAML)
	require.NoError(t, err)
	assertOverrides(t, f.Apply(viewer.DefaultOptions()))
	assert.True(t, f.WatchEnabled())
}

func TestDecodeTOML(t *testing.T) {
	f, err := Decode(strings.NewReader(tomlConfig), TOML)
	require.NoError(t, err)
	assertOverrides(t, f.Apply(viewer.DefaultOptions()))
	assert.False(t, f.WatchEnabled())
}

func TestDecodeEmptyKeepsDefaults(t *testing.T) {
	f, err := Decode(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Equal(t, viewer.DefaultOptions(), f.Apply(viewer.DefaultOptions()))

	var missing *File
	assert.Equal(t, viewer.DefaultOptions(), missing.Apply(viewer.DefaultOptions()))
	assert.Nil(t, missing.SolidPaths())
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("zoom: 3\n"), YAML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("zoom = 3\n"), TOML)
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{"a.yaml": YAML, "b.YML": YAML, "c.toml": TOML} {
		got, err := FormatOf(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("d.json")
	assert.Error(t, err)
}

func TestLoadResolvesSolids(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "models", "part.gltf"),
		"/abs/other.gltf",
	}, f.SolidPaths())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("width = ["), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}
