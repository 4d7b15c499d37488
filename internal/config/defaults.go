package config

const (
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
	LogLevelError = "error"
)

// Environment keys understood by the loader.
const (
	KeyAPIURL             = "API_URL"
	KeyBearerToken        = "BEARER_TOKEN"
	KeyTimeout            = "TIMEOUT"
	KeyRetryAttempts      = "RETRY_ATTEMPTS"
	KeyRetryDelay         = "RETRY_DELAY"
	KeyParallelTests      = "PARALLEL_TESTS"
	KeyRequestDelay       = "REQUEST_DELAY"
	KeyLogLevel           = "LOG_LEVEL"
	KeyLogTokens          = "LOG_TOKENS"
	KeyVerboseMode        = "VERBOSE_MODE"
	KeyGenerateHTMLReport = "GENERATE_HTML_REPORT"
	KeySaveJSONReport     = "SAVE_JSON_REPORT"
	KeyReportsDir         = "REPORTS_DIR"
	KeyTestsDir           = "TESTS_DIR"
	KeyTemplateFile       = "TEMPLATE_FILE"
	KeyPromptFile         = "PROMPT_FILE"
	KeyMetricsFile        = "METRICS_FILE"
)

// Keys lists every key in merge order.
var Keys = []string{
	KeyAPIURL,
	KeyBearerToken,
	KeyTimeout,
	KeyRetryAttempts,
	KeyRetryDelay,
	KeyParallelTests,
	KeyRequestDelay,
	KeyLogLevel,
	KeyLogTokens,
	KeyVerboseMode,
	KeyGenerateHTMLReport,
	KeySaveJSONReport,
	KeyReportsDir,
	KeyTestsDir,
	KeyTemplateFile,
	KeyPromptFile,
	KeyMetricsFile,
}

// Defaults returns the default value table. BEARER_TOKEN has no default.
func Defaults() map[string]string {
	return map[string]string{
		KeyAPIURL:             "https://api.openai.com/v1/chat/completions",
		KeyBearerToken:        "",
		KeyTimeout:            "30000",
		KeyRetryAttempts:      "3",
		KeyRetryDelay:         "1000",
		KeyParallelTests:      "1",
		KeyRequestDelay:       "500",
		KeyLogLevel:           LogLevelInfo,
		KeyLogTokens:          "true",
		KeyVerboseMode:        "false",
		KeyGenerateHTMLReport: "false",
		KeySaveJSONReport:     "true",
		KeyReportsDir:         "reports",
		KeyTestsDir:           "tests",
		KeyTemplateFile:       "config/body.json",
		KeyPromptFile:         "config/prompt.md",
		KeyMetricsFile:        "",
	}
}
