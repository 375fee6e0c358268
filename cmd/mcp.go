package cmd

import (
	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/internal/history"
	"github.com/huangsam/hrzones/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the hrzones MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents classify heart rates, summarize streams and inspect run history.`,
	// Logging goes to stderr, so stdio stays reserved for the protocol.
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				contract.LogWarn("Cannot close history store", err)
			}
		}()
		return mcp.StartMCPServer(rootCtx, store, version)
	},
}
