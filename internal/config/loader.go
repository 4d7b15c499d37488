package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingCredential is returned when BEARER_TOKEN is not configured.
var ErrMissingCredential = errors.New("BEARER_TOKEN is not configured")

// ErrMissingEndpoint is returned when API_URL resolves to an empty value.
var ErrMissingEndpoint = errors.New("API_URL is not configured")

// For mocking in tests
var lookupEnv = os.LookupEnv

// Load merges defaults, the dotenv file at envFile (optional) and the process
// environment, then parses the result into a Config.
func Load(envFile string) (Config, error) {
	values, err := LoadValues(envFile)
	if err != nil {
		return Config{}, err
	}
	return Parse(values)
}

// LoadValues returns the merged, unparsed value table. Commands that do not
// talk to the API use it to read settings without requiring a credential.
func LoadValues(envFile string) (map[string]string, error) {
	fileValues := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileValues = values
		case errors.Is(err, fs.ErrNotExist):
			// optional
		default:
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}
	return Merge(Defaults(), fileValues, environmentValues()), nil
}

// Merge overlays each layer onto base in order. Empty values never override.
func Merge(base map[string]string, layers ...map[string]string) map[string]string {
	merged := make(map[string]string, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for _, layer := range layers {
		for _, key := range Keys {
			if v, ok := layer[key]; ok && strings.TrimSpace(v) != "" {
				merged[key] = strings.TrimSpace(v)
			}
		}
	}
	return merged
}

func environmentValues() map[string]string {
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		if v, ok := lookupEnv(key); ok {
			values[key] = v
		}
	}
	return values
}

// Parse converts a merged value table into a validated Config.
func Parse(values map[string]string) (Config, error) {
	p := &parser{values: values}

	cfg := Config{
		APIURL:             values[KeyAPIURL],
		BearerToken:        values[KeyBearerToken],
		Timeout:            p.millis(KeyTimeout, 1),
		RetryAttempts:      p.integer(KeyRetryAttempts, 0),
		RetryDelay:         p.millis(KeyRetryDelay, 0),
		Parallelism:        p.integer(KeyParallelTests, 0),
		RequestDelay:       p.millis(KeyRequestDelay, 0),
		LogLevel:           strings.ToLower(values[KeyLogLevel]),
		LogTokens:          p.boolean(KeyLogTokens),
		Verbose:            p.boolean(KeyVerboseMode),
		GenerateHTMLReport: p.boolean(KeyGenerateHTMLReport),
		SaveJSONReport:     p.boolean(KeySaveJSONReport),
		ReportsDir:         values[KeyReportsDir],
		TestsDir:           values[KeyTestsDir],
		TemplateFile:       values[KeyTemplateFile],
		PromptFile:         values[KeyPromptFile],
		MetricsFile:        values[KeyMetricsFile],
	}
	if p.err != nil {
		return Config{}, p.err
	}

	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that would make a run impossible.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return ErrMissingEndpoint
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute URL", KeyAPIURL, cfg.APIURL)
	}
	if strings.TrimSpace(cfg.BearerToken) == "" {
		return ErrMissingCredential
	}
	switch cfg.LogLevel {
	case LogLevelInfo, LogLevelDebug, LogLevelError:
	default:
		return fmt.Errorf("invalid %s %q: must be one of info, debug, error", KeyLogLevel, cfg.LogLevel)
	}
	if cfg.Parallelism < 1 {
		return fmt.Errorf("invalid %s %d: must be at least 1", KeyParallelTests, cfg.Parallelism)
	}
	return nil
}

// parser keeps the first conversion error so Parse can report it once.
type parser struct {
	values map[string]string
	err    error
}

func (p *parser) integer(key string, min int) int {
	raw := p.values[key]
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return 0
	}
	if n < min {
		p.fail(fmt.Errorf("invalid %s %d: must be >= %d", key, n, min))
		return 0
	}
	return n
}

func (p *parser) millis(key string, min int) time.Duration {
	return time.Duration(p.integer(key, min)) * time.Millisecond
}

func (p *parser) boolean(key string) bool {
	raw := p.values[key]
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s %q: expected true or false", key, raw))
		return false
	}
	return b
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
