package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/dom"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/output"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/prefs"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/registration"
)

var registrationsJSON bool

var registrationsCmd = &cobra.Command{
	Use:   "registrations",
	Short: "Inspect stored registrations",
}

var registrationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored registrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openRegistrationStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := registration.NewService(store, logger).List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list registrations: %w", err)
		}

		if registrationsJSON {
			if records == nil {
				records = []models.Registration{}
			}
			jsonData, err := output.ToJSON(records, true)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		}

		renderer, err := resolveTheme(prefs.NewFileStore(prefsPath), "", lipgloss.HasDarkBackground())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderRegistrations(records, renderer.palette()))
		fmt.Fprintf(cmd.OutOrStdout(), "%d cadastro(s)\n", len(records))
		return nil
	},
}

var (
	submitURL    string
	submitFields = make(map[string]*string)
)

var registrationsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one registration to a running site, as the form does",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := registration.NewForm(dom.NewDocument(), submitURL)
		for _, id := range registration.FormFields {
			form.SetField(id, *submitFields[id])
		}

		res := form.Submit(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		if !res.Success {
			return fmt.Errorf("registration not stored")
		}
		return nil
	},
}

func init() {
	registrationsListCmd.Flags().BoolVar(&registrationsJSON, "json", false, "Print JSON instead of a table")

	registrationsSubmitCmd.Flags().StringVar(&submitURL, "url", "http://localhost:3000"+registration.DefaultFormEndpoint, "Registration endpoint URL")
	for _, id := range registration.FormFields {
		submitFields[id] = registrationsSubmitCmd.Flags().String(id, "", "Form field "+id)
	}

	registrationsCmd.AddCommand(registrationsListCmd, registrationsSubmitCmd)
}

func renderRegistrations(records []models.Registration, p palette) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{r.Name, r.Email, strconv.Itoa(r.Age), r.CPF, r.HealthCardID, r.FamilyHistory, r.SubmittedAt}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.border).
		Headers(models.RegistrationHeader...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return p.cell
		}).
		String()
}
