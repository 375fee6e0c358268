package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// StreamType names one time series of an activity.
	StreamType string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Stream types requested from the remote service.
const (
	StreamTime      StreamType = "time"
	StreamHeartRate StreamType = "heartrate"
	StreamVelocity  StreamType = "velocity_smooth" // meters per second
	StreamCadence   StreamType = "cadence"
)

// DefaultStreamTypes is the ordered list of streams fetched for every activity.
var DefaultStreamTypes = []StreamType{StreamTime, StreamHeartRate, StreamVelocity, StreamCadence}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Defaults shared by the CLI and the callback listener.
const (
	DefaultCallbackPort = 5000
	DefaultCallbackHost = "localhost"
	DefaultCallbackPath = "/authorized"
	DefaultCredentials  = "client.secret"
	DefaultOutputDir    = "hrzones-report"
	DefaultKafkaTopic   = "hrzones.zone-summaries"
	MaxActivityLimit    = 200
)
