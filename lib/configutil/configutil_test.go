package configutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl   string        `json:"base_url" validate:"required,url"`
	PaceScale float64       `json:"pace_scale" validate:"gte=0"`
	Answers   int           `json:"answers" validate:"gte=1"`
	Verbose   bool          `json:"verbose"`
	Timeout   time.Duration `json:"-"`
	Endpoints []string      `json:"endpoints"`
}

func defaults() testConfig {
	return testConfig{
		BaseUrl:   "https://www.xwordinfo.com",
		PaceScale: 1,
		Answers:   3,
	}
}

func writeFile(t *testing.T, path, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0666))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, name, `{
		// comments are allowed
		base_url: "https://example.com",
		answers: 4,
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{answers: 5}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", cfg.BaseUrl)
	require.Equal(t, 5, cfg.Answers)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "xwordclues.json5")

	cfg, err := Load(name, defaults(), "XWORDCLUES_TEST")
	require.NoError(t, err)
	require.Equal(t, defaults(), cfg)

	writeFile(t, name, `{pace_scale: 2.5, answers: 4}`)
	t.Setenv("XWORDCLUES_TEST_ANSWERS", "6")
	t.Setenv("XWORDCLUES_TEST_VERBOSE", "true")

	cfg, err = Load(name, defaults(), "XWORDCLUES_TEST")
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:   "https://www.xwordinfo.com",
		PaceScale: 2.5,
		Answers:   6,
		Verbose:   true,
	}, cfg)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "xwordclues.json5")

	writeFile(t, name, `{base_url: "not a url"}`)
	_, err := Load(name, defaults(), "XWORDCLUES_TEST")
	require.ErrorContains(t, err, "invalid config")

	writeFile(t, name, `{answers: `)
	_, err = Load(name, defaults(), "XWORDCLUES_TEST")
	require.Error(t, err)

	os.Remove(name)
	t.Setenv("XWORDCLUES_TEST_PACE_SCALE", "fast")
	_, err = Load(name, defaults(), "XWORDCLUES_TEST")
	require.ErrorContains(t, err, "XWORDCLUES_TEST_PACE_SCALE")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "XWORDCLUES_DOTENV_A=from-file\nXWORDCLUES_DOTENV_B=from-file\n")

	t.Setenv("XWORDCLUES_DOTENV_B", "from-env")
	t.Cleanup(func() { os.Unsetenv("XWORDCLUES_DOTENV_A") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	require.Equal(t, "from-file", os.Getenv("XWORDCLUES_DOTENV_A"))
	require.Equal(t, "from-env", os.Getenv("XWORDCLUES_DOTENV_B"))
}

func TestEnvKey(t *testing.T) {
	require.Equal(t, "XWORDCLUES_BASE_URL", EnvKey("XWORDCLUES", "base_url"))
	require.Equal(t, "DUMP_DIR", EnvKey("", "dump-dir"))
}
