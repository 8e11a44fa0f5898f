package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/ukaji3/novembroazul-go/pkg/novembro"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/prefs"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/theme"
)

// defaultPrefsPath holds terminal preferences such as the theme.
const defaultPrefsPath = ".novembro-prefs.yaml"

var (
	tableTheme string
	prefsPath  string
)

// palette is the terminal styling of one theme.
type palette struct {
	header lipgloss.Style
	cell   lipgloss.Style
	total  lipgloss.Style
	border lipgloss.Style
}

var palettes = map[theme.Theme]palette{
	theme.Light: {
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")).Padding(0, 1),
		cell:   lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Padding(0, 1),
		total:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")).Padding(0, 1),
		border: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	},
	theme.Dark: {
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")).Padding(0, 1),
		cell:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1),
		total:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Padding(0, 1),
		border: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	},
}

// terminalRenderer shows a theme by picking the table palette.
type terminalRenderer struct {
	current theme.Theme
}

func (r *terminalRenderer) Render(t theme.Theme) { r.current = t }

func (r *terminalRenderer) Current() theme.Theme {
	if r.current == "" {
		return theme.Light
	}
	return r.current
}

func (r *terminalRenderer) palette() palette {
	return palettes[r.Current()]
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the monthly procedures table with totals",
	Long: `Prints the monthly procedures table. The theme is remembered in the
preferences file; --theme light|dark sets it and --theme toggle flips it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := resolveTheme(prefs.NewFileStore(prefsPath), tableTheme, lipgloss.HasDarkBackground())
		if err != nil {
			return err
		}

		ds, err := loadDataset(cmd.Context(), novembro.DefaultOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(ds.Table, renderer.palette()))
		return nil
	},
}

func init() {
	tableCmd.Flags().StringVar(&tableTheme, "theme", "", "Theme: light, dark or toggle (default: remembered or terminal background)")
}

// resolveTheme initializes the theme from store and applies the flag value.
func resolveTheme(store prefs.Store, flag string, prefersDark bool) (*terminalRenderer, error) {
	renderer := &terminalRenderer{}
	ctrl := theme.NewController(renderer, store)
	ctrl.Init(prefersDark)

	switch flag {
	case "":
	case "toggle":
		ctrl.Toggle()
	case string(theme.Light), string(theme.Dark):
		ctrl.Set(theme.Theme(flag))
	default:
		return nil, fmt.Errorf("invalid theme: %s (must be light, dark or toggle)", flag)
	}
	return renderer, nil
}

// renderTable draws the table with a bold Total row.
func renderTable(t models.Table, p palette) string {
	cells := t.Cells()
	totalRow := len(cells) - 1
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.border).
		Headers(t.Header...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.header
			case row == totalRow:
				return p.total
			default:
				return p.cell
			}
		}).
		String()
}
