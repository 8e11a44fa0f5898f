package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/llm"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the procedures summary and the assistant as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := server.NewMCPServer(
			"novembro",
			version,
		)

		tools.Register(s, tools.Deps{
			Data:         loadDataset,
			Completer:    newLLMClient(),
			SystemPrompt: llm.SystemPrompt,
		})

		logger.Debug("mcp server on stdio")
		return server.ServeStdio(s)
	},
}
