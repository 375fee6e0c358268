// Package cmd defines the command-line interface for hrzones.
package cmd

import (
	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("output-dir", schema.DefaultOutputDir, "Directory for charts, index.html and manifest.yaml")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("kafka-brokers", "", "Comma-separated Kafka brokers to publish reports to (empty disables publishing)")
	rootCmd.PersistentFlags().String("kafka-topic", schema.DefaultKafkaTopic, "Kafka topic for published reports")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this textfile after each run")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().IntP("limit", "l", contract.DefaultActivityLimit, "Number of most recent activities to report")
	reportCmd.Flags().String("host", schema.DefaultCallbackHost, "Loopback host for the authorization redirect")
	reportCmd.Flags().IntP("port", "p", schema.DefaultCallbackPort, "Port for the authorization redirect (0 = any free port)")
	reportCmd.Flags().String("timeout", "0s", "Maximum time to wait for the redirect (0 = wait indefinitely)")
	reportCmd.Flags().String("credentials", schema.DefaultCredentials, "File holding 'client_id,client_secret'")
	reportCmd.Flags().String("client-id", "", "OAuth client id (overrides the credentials file)")
	reportCmd.Flags().String("client-secret", "", "OAuth client secret (overrides the credentials file)")
	reportCmd.Flags().String("api-url", contract.DefaultAPIURL, "Strava API base URL")
	reportCmd.Flags().String("auth-url", contract.DefaultAuthURL, "Strava authorization URL")
	reportCmd.Flags().String("token-url", contract.DefaultTokenURL, "Strava token URL")
	reportCmd.Flags().String("browser", "yes", "Open the authorization page in a browser (yes/no)")
	reportCmd.Flags().String("streams", "", "Comma-separated stream types to request (default: all)")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
