// Package config provides configuration management for llmcheck.
//
// Configuration is a flat set of environment-style keys that is merged once at
// process start and then handed, as an immutable Config value, to every
// component of the test engine. Nothing below the command layer reads the
// process environment.
//
// # Configuration Layers
//
// Values are merged in the following order, later sources overriding earlier
// ones:
//
//  1. Default table (defaults.go)
//     - Every key has a default except BEARER_TOKEN
//
//  2. Dotenv file (./.env by default)
//     - Read with godotenv.Read; the process environment is not modified
//     - A missing file is not an error
//
//  3. Process environment
//     - Only non-empty values override, so an exported empty variable falls
//     back to the previous layer
//
// Command line flags are applied on top of the resulting Config by the cmd
// package.
//
// # Keys
//
//	API_URL               completion endpoint (POST)
//	BEARER_TOKEN          required credential, no default
//	TIMEOUT               per-request timeout in milliseconds
//	RETRY_ATTEMPTS        retries after the first attempt
//	RETRY_DELAY           fixed delay between attempts in milliseconds
//	PARALLEL_TESTS        chunk size; 1 runs cases sequentially
//	REQUEST_DELAY         pause between cases or chunks in milliseconds
//	LOG_LEVEL             info, debug or error
//	LOG_TOKENS            print token usage per case
//	VERBOSE_MODE          print raw responses per case
//	GENERATE_HTML_REPORT  write test-report.html
//	SAVE_JSON_REPORT      write test-results.json
//	REPORTS_DIR           output directory for reports
//	TESTS_DIR             directory scanned for suite files
//	TEMPLATE_FILE         JSON request template
//	PROMPT_FILE           prompt text substituted for {{prompt}}
//	METRICS_FILE          optional Prometheus textfile output
//
// # Usage Example
//
//	cfg, err := config.Load(".env")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exec := client.New(cfg)
package config
