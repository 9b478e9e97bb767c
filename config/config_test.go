package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/kovidgoyal/ambient"
	"github.com/kovidgoyal/ambient/types"
)

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ambient.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lux: 1200\npixel_order: rgba\noutput_format: webp\n"), 0644))
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1200, *c.Lux)
	require.Nil(t, c.Parameter)
	require.Equal(t, ambient.RGBA, c.PixelOrder)
	require.Equal(t, types.WEBP, c.OutputFormat)
	require.Equal(t, 95, c.JPEGQuality)
	require.True(t, c.AutoOrient)
	require.Equal(t, "-ambient", c.Suffix)
	require.NoError(t, c.Validate())

	require.NoError(t, os.WriteFile(path, []byte("pixel_order: xyzw\n"), 0644))
	_, err = Load(path)
	require.ErrorIs(t, err, ambient.ErrUnknownPixelOrder)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ambient.yaml")
	p := float32(2.5)
	c := Default()
	c.Parameter = &p
	c.PixelOrder = ambient.BGRA
	c.OutputFormat = types.JPEG
	c.OutputDir = "out"
	require.NoError(t, Save(path, c))
	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(c, loaded); diff != "" {
		t.Fatalf("unexpected diff (-want +got):\n%s", diff)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"AMBIENT_PARAMETER":      "3.5",
		"AMBIENT_PIXEL_ORDER":    " abgr ",
		"AMBIENT_PRESERVE_ALPHA": "true",
		"AMBIENT_MAX_SIZE":       "2048",
		"AMBIENT_OUTPUT_DIR":     "/tmp/out",
		"AMBIENT_WORKERS":        "3",
		"UNRELATED":              "1",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	c := Default()
	require.NoError(t, c.ApplyEnv(lookup))
	require.Equal(t, float32(3.5), *c.Parameter)
	require.Equal(t, ambient.ABGR, c.PixelOrder)
	require.True(t, c.PreserveAlpha)
	require.Equal(t, 2048, c.MaxSize)
	require.Equal(t, "/tmp/out", c.OutputDir)
	require.Equal(t, 3, c.Workers)
	require.Equal(t, 95, c.JPEGQuality)

	env = map[string]string{"AMBIENT_LUX": "bright", "AMBIENT_AUTO_ORIENT": "maybe"}
	err := Default().ApplyEnv(lookup)
	require.ErrorContains(t, err, "AMBIENT_LUX")
	require.ErrorContains(t, err, "AMBIENT_AUTO_ORIENT")
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AMBIENT_TEST_LUX=640\n"), 0644))
	t.Setenv("AMBIENT_TEST_LUX", "")
	os.Unsetenv("AMBIENT_TEST_LUX")
	require.NoError(t, LoadEnv(path))
	require.Equal(t, "640", os.Getenv("AMBIENT_TEST_LUX"))
	require.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidate(t *testing.T) {
	bad := float32(7)
	neg := -1
	c := Default()
	c.Parameter = &bad
	c.Lux = &neg
	c.JPEGQuality = 0
	c.Suffix = ""
	c.PixelOrder = ambient.PixelOrder(42)
	err := c.Validate()
	require.ErrorIs(t, err, ErrOverwritesInput)
	require.ErrorIs(t, err, ambient.ErrUnknownPixelOrder)
	require.ErrorContains(t, err, "parameter 7")
	require.ErrorContains(t, err, "lux -1")
	require.ErrorContains(t, err, "jpeg_quality 0")
	require.NoError(t, Default().Validate())
}

func TestEffectiveParameter(t *testing.T) {
	m := ambient.DefaultMeta
	c := Default()
	require.Equal(t, m.DefaultParameter(0), c.EffectiveParameter(m))
	lux := 2500
	c.Lux = &lux
	require.Equal(t, float32(5), c.EffectiveParameter(m))
	p := float32(1.25)
	c.Parameter = &p
	require.Equal(t, p, c.EffectiveParameter(m))
	require.Len(t, c.CompensatorOptions(), 2)
	require.Len(t, c.DecodeOptions(), 2)
	require.Len(t, c.EncodeOptions(), 1)
}
