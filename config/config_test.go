package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeParams(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parameters.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PARAMS_FILE", filepath.Join(t.TempDir(), "missing.yml"))

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.InputSource)
	assert.Equal(t, 0.2, cfg.TestSize)
	assert.Equal(t, uint64(42), cfg.RandomState)
	assert.False(t, cfg.EnablePostgres)
	assert.False(t, cfg.IncludePriceInClassification)
}

func TestLoadParametersFile(t *testing.T) {
	t.Setenv("PARAMS_FILE", writeParams(t, "test_size: 0.3\nrandom_state: 7\n"))

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.TestSize)
	assert.Equal(t, uint64(7), cfg.RandomState)
}

func TestEnvironmentOverridesParametersFile(t *testing.T) {
	t.Setenv("PARAMS_FILE", writeParams(t, "test_size: 0.3\nrandom_state: 7\n"))
	t.Setenv("TEST_SIZE", "0.25")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.TestSize)
	assert.Equal(t, uint64(7), cfg.RandomState)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"test size too big": {"TEST_SIZE", "1.5"},
		"zero test size":    {"TEST_SIZE", "0"},
		"unknown source":    {"INPUT_SOURCE", "parquet"},
		"unknown log level": {"LOG_LEVEL", "loud"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PARAMS_FILE", "")
			t.Setenv(kv[0], kv[1])

			_, err := load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsBrokenParametersFile(t *testing.T) {
	t.Setenv("PARAMS_FILE", writeParams(t, "test_size: [oops"))

	_, err := load()
	assert.ErrorContains(t, err, "parse")
}

func TestDSN(t *testing.T) {
	c := &Config{PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", c.DSN())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AIRBNB_FEATURES_TEST_KEY=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("AIRBNB_FEATURES_TEST_KEY") })

	assert.True(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("AIRBNB_FEATURES_TEST_KEY"))

	assert.False(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
