package contract

import (
	"testing"
	"time"

	"github.com/huangsam/hrzones/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:          1,
		Output:         "text",
		Precision:      1,
		Color:          "yes",
		Browser:        "yes",
		Port:           schema.DefaultCallbackPort,
		HistoryBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit above page size", mutate: func(in *ConfigRawInput) { in.Limit = 201 }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) {
			in.Output = "parquet"
			in.OutputFile = "zones.parquet"
		}},
		{name: "invalid precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "non loopback host", mutate: func(in *ConfigRawInput) { in.Host = "0.0.0.0" }, expectError: true},
		{name: "ipv6 loopback host", mutate: func(in *ConfigRawInput) { in.Host = "::1" }},
		{name: "negative port", mutate: func(in *ConfigRawInput) { in.Port = -1 }, expectError: true},
		{name: "bad timeout", mutate: func(in *ConfigRawInput) { in.Timeout = "soon" }, expectError: true},
		{name: "negative timeout", mutate: func(in *ConfigRawInput) { in.Timeout = "-5s" }, expectError: true},
		{name: "bad api url", mutate: func(in *ConfigRawInput) { in.APIURL = "not a url" }, expectError: true},
		{name: "unknown stream", mutate: func(in *ConfigRawInput) { in.Streams = "heartrate,watts" }, expectError: true},
		{name: "streams without velocity", mutate: func(in *ConfigRawInput) { in.Streams = "heartrate,cadence" }, expectError: true},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "redis" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, 1, cfg.Limit)
	assert.Equal(t, schema.DefaultCallbackHost, cfg.CallbackHost)
	assert.Equal(t, schema.DefaultCallbackPort, cfg.CallbackPort)
	assert.Equal(t, "/authorized", cfg.CallbackPath)
	assert.Equal(t, time.Duration(0), cfg.Timeout, "default must wait indefinitely")
	assert.Equal(t, schema.DefaultStreamTypes, cfg.StreamTypes)
	assert.Equal(t, schema.DefaultCredentials, cfg.CredentialsFile)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, schema.DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, schema.DefaultKafkaTopic, cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.OpenBrowser)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateOverrides(t *testing.T) {
	input := validInput()
	input.Timeout = "2m"
	input.Streams = " heartrate , velocity_smooth,heartrate"
	input.KafkaBrokers = "k1:9092, k2:9092,"
	input.APIURL = "http://127.0.0.1:8080/api/v3/"
	input.Browser = "no"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, []schema.StreamType{schema.StreamHeartRate, schema.StreamVelocity}, cfg.StreamTypes)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "http://127.0.0.1:8080/api/v3", cfg.APIURL)
	assert.False(t, cfg.OpenBrowser)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite ignores connection", schema.SQLiteBackend, "", false},
		{"none ignores connection", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/hrzones", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/hrzones", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=hrzones", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsLoopbackHost(t *testing.T) {
	assert.True(t, IsLoopbackHost("localhost"))
	assert.True(t, IsLoopbackHost("127.0.0.1"))
	assert.True(t, IsLoopbackHost("::1"))
	assert.False(t, IsLoopbackHost("192.168.1.10"))
	assert.False(t, IsLoopbackHost("example.com"))
}
