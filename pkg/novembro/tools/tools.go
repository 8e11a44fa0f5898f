// Package tools exposes the procedures summary and the assistant as MCP tools.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ukaji3/novembroazul-go/pkg/novembro"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/llm"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
)

// Tool names.
const (
	SummaryTool   = "resumo_procedimentos"
	AssistantTool = "perguntar_assistente"
)

// Completer answers one question.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Deps are the collaborators behind the tools.
type Deps struct {
	Data         func(ctx context.Context, opts novembro.Options) (*models.ProcedureDataset, error)
	Completer    Completer
	SystemPrompt string
}

type toolset struct {
	deps Deps
}

// Register registers all tools with the MCP server.
func Register(s *server.MCPServer, deps Deps) {
	t := &toolset{deps: deps}
	if t.deps.SystemPrompt == "" {
		t.deps.SystemPrompt = llm.SystemPrompt
	}

	s.AddTool(mcp.NewTool(SummaryTool,
		mcp.WithDescription("Resumo mensal dos procedimentos de próstata (consultas, exames de PSA e biópsias) com o total de cada série."),
		mcp.WithString("series",
			mcp.Description("Séries separadas por vírgula. Padrão: todas."),
		),
	), t.summaryHandler)

	s.AddTool(mcp.NewTool(AssistantTool,
		mcp.WithDescription("Pergunta ao assistente do Novembro Azul sobre prevenção, exames e orientações. Não fornece diagnóstico."),
		mcp.WithString("pergunta",
			mcp.Required(),
			mcp.Description("A pergunta do visitante"),
		),
	), t.assistantHandler)
}

func (t *toolset) summaryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.deps.Data == nil {
		return newToolResultError("dados indisponíveis"), nil
	}

	opts := novembro.DefaultOptions()
	if raw, ok := request.Params.Arguments["series"].(string); ok && strings.TrimSpace(raw) != "" {
		for _, name := range strings.Split(raw, ",") {
			opts.Series = append(opts.Series, strings.TrimSpace(name))
		}
	}

	ds, err := t.deps.Data(ctx, opts)
	if err != nil {
		return newToolResultError(fmt.Sprintf("failed to load data: %v", err)), nil
	}
	return mcp.NewToolResultText(buildSummary(ds, opts.SelectedSeries())), nil
}

func (t *toolset) assistantHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, ok := request.Params.Arguments["pergunta"].(string)
	if !ok || strings.TrimSpace(question) == "" {
		return newToolResultError("pergunta is required"), nil
	}
	if t.deps.Completer == nil {
		return newToolResultError("assistente indisponível"), nil
	}

	reply, err := t.deps.Completer.Complete(ctx, t.deps.SystemPrompt, strings.TrimSpace(question))
	if err != nil {
		return newToolResultError(fmt.Sprintf("falha ao consultar o assistente: %v", err)), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func newToolResultError(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: message,
			},
		},
		IsError: true,
	}
}

// buildSummary renders the table of the selected series as pipe-separated
// rows ending with the Total row.
func buildSummary(ds *models.ProcedureDataset, selected []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fonte: %s\nMeses: %d\n\n", ds.Source, len(ds.Records))

	index := make(map[string]int)
	for i, col := range ds.Table.DataColumns() {
		index[col] = i
	}

	header := []string{models.MonthField}
	var cols []int
	for _, s := range selected {
		if i, ok := index[s]; ok {
			header = append(header, s)
			cols = append(cols, i)
		}
	}
	b.WriteString(strings.Join(header, " | "))
	b.WriteByte('\n')

	rows := append(append([]models.TableRow(nil), ds.Table.Rows...), ds.Table.Total)
	for _, row := range rows {
		cells := []string{row.Label}
		for _, i := range cols {
			cells = append(cells, fmt.Sprint(row.Values[i]))
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteByte('\n')
	}
	return b.String()
}
