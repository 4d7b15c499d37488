package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withEnv replaces the environment lookup for the duration of a test.
func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	original := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = original })
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsWithToken(t *testing.T) {
	withEnv(t, map[string]string{KeyBearerToken: "sk-test"})

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.APIURL)
	assert.Equal(t, "sk-test", cfg.BearerToken)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 1, cfg.Parallelism)
	assert.Equal(t, 500*time.Millisecond, cfg.RequestDelay)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.True(t, cfg.LogTokens)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.GenerateHTMLReport)
	assert.True(t, cfg.SaveJSONReport)
	assert.Equal(t, "reports", cfg.ReportsDir)
	assert.Equal(t, "tests", cfg.TestsDir)
}

func TestLoad_MissingToken(t *testing.T) {
	withEnv(t, map[string]string{})

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestLoad_EnvFileThenProcessEnv(t *testing.T) {
	path := writeEnvFile(t, `
API_URL=http://localhost:8080/v1/chat/completions
BEARER_TOKEN=from-file
PARALLEL_TESTS=3
LOG_LEVEL=debug
GENERATE_HTML_REPORT=true
`)
	withEnv(t, map[string]string{
		KeyBearerToken:   "from-env",
		KeyParallelTests: "", // empty values do not override
		KeyRetryAttempts: "0",
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1/chat/completions", cfg.APIURL)
	assert.Equal(t, "from-env", cfg.BearerToken)
	assert.Equal(t, 3, cfg.Parallelism)
	assert.Equal(t, 0, cfg.RetryAttempts)
	assert.True(t, cfg.Debug())
	assert.True(t, cfg.GenerateHTMLReport)

	// The process environment must stay untouched by the dotenv layer.
	_, set := os.LookupEnv("GENERATE_HTML_REPORT")
	assert.False(t, set)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		errLike  string
	}{
		{"non numeric timeout", map[string]string{KeyTimeout: "soon"}, "invalid TIMEOUT"},
		{"zero timeout", map[string]string{KeyTimeout: "0"}, "invalid TIMEOUT 0"},
		{"negative retries", map[string]string{KeyRetryAttempts: "-1"}, "invalid RETRY_ATTEMPTS"},
		{"bad bool", map[string]string{KeyVerboseMode: "maybe"}, "invalid VERBOSE_MODE"},
		{"bad level", map[string]string{KeyLogLevel: "trace"}, "invalid LOG_LEVEL"},
		{"relative url", map[string]string{KeyAPIURL: "/v1/chat"}, "invalid API_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := Merge(Defaults(), map[string]string{KeyBearerToken: "sk"}, tt.override)
			_, err := Parse(values)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errLike)
		})
	}
}

func TestParse_ParallelismClampedToOne(t *testing.T) {
	values := Merge(Defaults(), map[string]string{KeyBearerToken: "sk", KeyParallelTests: "0"})
	cfg, err := Parse(values)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Parallelism)
}

func TestConfig_ForSuite(t *testing.T) {
	base := Config{Timeout: 30 * time.Second, RetryAttempts: 3}
	two := 2
	zero := 0

	assert.Equal(t, base, base.ForSuite(SuiteOverrides{}))

	got := base.ForSuite(SuiteOverrides{Timeout: 1500, Retries: &two})
	assert.Equal(t, 1500*time.Millisecond, got.Timeout)
	assert.Equal(t, 2, got.RetryAttempts)

	got = base.ForSuite(SuiteOverrides{Retries: &zero})
	assert.Equal(t, 0, got.RetryAttempts)
	assert.Equal(t, 30*time.Second, got.Timeout)
}

func TestConfig_Redacted(t *testing.T) {
	cfg := Config{BearerToken: "sk-secret", APIURL: "http://x"}
	red := cfg.Redacted()
	assert.Equal(t, "***", red.BearerToken)
	assert.Equal(t, "sk-secret", cfg.BearerToken)
}

func TestLoadValues_DoesNotRequireToken(t *testing.T) {
	withEnv(t, map[string]string{KeyTestsDir: "suites"})

	values, err := LoadValues(writeEnvFile(t, "REPORTS_DIR=out\n"))
	require.NoError(t, err)

	assert.Equal(t, "suites", values[KeyTestsDir])
	assert.Equal(t, "out", values[KeyReportsDir])
	assert.Empty(t, values[KeyBearerToken])
}
