package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/oshokin/desk-clock/internal/service/deskclock"
)

// tableCmd prints the transition table of the clock.
//
//nolint:gochecknoglobals // Cobra commands are package-level by convention.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the transition table.",
	Long:  "Print every state of the clock with its churn action and its transitions in lookup order.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		renderer := lipgloss.NewRenderer(cmd.OutOrStdout())
		header := renderer.NewStyle().Bold(true).Padding(0, 1)
		cell := renderer.NewStyle().Padding(0, 1)

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(renderer.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
			Headers(deskclock.TableHeaders...).
			Rows(deskclock.DescribeTable()...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}

				return cell
			})

		_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())

		return err
	},
}
