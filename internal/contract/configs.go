package contract

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/hrzones/schema"
)

// Default values for configuration.
const (
	DefaultActivityLimit = 1
	DefaultPrecision     = 1
	DefaultAPIURL        = "https://www.strava.com/api/v3"
	DefaultAuthURL       = "https://www.strava.com/oauth/authorize"
	DefaultTokenURL      = "https://www.strava.com/oauth/token"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a report run.
// This struct remains the "final, validated" config.
type Config struct {
	Limit       int
	StreamTypes []schema.StreamType

	CallbackHost string
	CallbackPort int
	CallbackPath string
	Timeout      time.Duration // 0 = wait for the redirect indefinitely

	CredentialsFile string
	ClientID        string
	ClientSecret    string // Please use env var as this is plaintext
	APIURL          string
	AuthURL         string
	TokenURL        string
	OpenBrowser     bool

	Output     schema.OutputMode
	OutputFile string
	OutputDir  string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	KafkaBrokers []string
	KafkaTopic   string
	MetricsFile  string

	Verbose bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit            int    `mapstructure:"limit"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	MetricsFile      string `mapstructure:"metrics-file"`
	Verbose          bool   `mapstructure:"verbose"`

	// --- Fields from reportCmd.Flags() ---
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Timeout      string `mapstructure:"timeout"`
	Credentials  string `mapstructure:"credentials"`
	ClientID     string `mapstructure:"client-id"`
	ClientSecret string `mapstructure:"client-secret"`
	APIURL       string `mapstructure:"api-url"`
	AuthURL      string `mapstructure:"auth-url"`
	TokenURL     string `mapstructure:"token-url"`
	Browser      string `mapstructure:"browser"`
	OutputDir    string `mapstructure:"output-dir"`
	Streams      string `mapstructure:"streams"`

	// --- Publishing ---
	KafkaBrokers string `mapstructure:"kafka-brokers"`
	KafkaTopic   string `mapstructure:"kafka-topic"`
}

// ProcessAndValidate reads from input and populates cfg.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCallback(cfg, input); err != nil {
		return err
	}
	if err := processRemote(cfg, input); err != nil {
		return err
	}
	if err := processStreams(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	processPublishing(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = schema.DefaultOutputDir
	}
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > schema.MaxActivityLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", schema.MaxActivityLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// processCallback validates the loopback listener settings.
func processCallback(cfg *Config, input *ConfigRawInput) error {
	cfg.CallbackHost = input.Host
	if cfg.CallbackHost == "" {
		cfg.CallbackHost = schema.DefaultCallbackHost
	}
	if !IsLoopbackHost(cfg.CallbackHost) {
		return fmt.Errorf("host must be a loopback address (received %q)", cfg.CallbackHost)
	}

	// Port 0 is accepted so the OS can pick a free port.
	if input.Port < 0 || input.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535 (received %d)", input.Port)
	}
	cfg.CallbackPort = input.Port
	cfg.CallbackPath = schema.DefaultCallbackPath

	cfg.Timeout = 0
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout format: %w", err)
		}
		if timeout < 0 {
			return fmt.Errorf("timeout cannot be negative (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}

	browser, err := ParseBoolString(input.Browser)
	if err != nil {
		return fmt.Errorf("invalid --browser value: %w", err)
	}
	cfg.OpenBrowser = browser
	return nil
}

// processRemote validates the remote service endpoints and credential sources.
func processRemote(cfg *Config, input *ConfigRawInput) error {
	cfg.CredentialsFile = input.Credentials
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = schema.DefaultCredentials
	}
	cfg.ClientID = strings.TrimSpace(input.ClientID)
	cfg.ClientSecret = strings.TrimSpace(input.ClientSecret)

	endpoints := []struct {
		name  string
		value string
		def   string
		dst   *string
	}{
		{"api-url", input.APIURL, DefaultAPIURL, &cfg.APIURL},
		{"auth-url", input.AuthURL, DefaultAuthURL, &cfg.AuthURL},
		{"token-url", input.TokenURL, DefaultTokenURL, &cfg.TokenURL},
	}
	for _, ep := range endpoints {
		raw := ep.value
		if raw == "" {
			raw = ep.def
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", ep.name, raw)
		}
		*ep.dst = strings.TrimSuffix(raw, "/")
	}
	return nil
}

// processStreams parses the comma-separated stream list, defaulting to all four.
func processStreams(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Streams) == "" {
		cfg.StreamTypes = append([]schema.StreamType(nil), schema.DefaultStreamTypes...)
		return nil
	}
	valid := map[schema.StreamType]struct{}{}
	for _, t := range schema.DefaultStreamTypes {
		valid[t] = struct{}{}
	}
	seen := map[schema.StreamType]struct{}{}
	cfg.StreamTypes = nil
	for part := range strings.SplitSeq(input.Streams, ",") {
		t := schema.StreamType(strings.ToLower(strings.TrimSpace(part)))
		if t == "" {
			continue
		}
		if _, ok := valid[t]; !ok {
			return fmt.Errorf("invalid stream type '%s'. must be time, heartrate, velocity_smooth, cadence", t)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		cfg.StreamTypes = append(cfg.StreamTypes, t)
	}
	for _, required := range []schema.StreamType{schema.StreamHeartRate, schema.StreamVelocity} {
		if _, ok := seen[required]; !ok {
			return fmt.Errorf("streams must include %s", required)
		}
	}
	return nil
}

// processPublishing splits the broker list; an empty list disables publishing.
func processPublishing(cfg *Config, input *ConfigRawInput) {
	cfg.KafkaBrokers = nil
	for b := range strings.SplitSeq(input.KafkaBrokers, ",") {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, trimmed)
		}
	}
	cfg.KafkaTopic = input.KafkaTopic
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = schema.DefaultKafkaTopic
	}
}

// IsLoopbackHost reports whether host names the local machine only.
func IsLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
