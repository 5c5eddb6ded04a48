package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rackworks/rackviz/pkg/rack"
)

// catalogCommand creates the catalog command group.
func (c *CLI) catalogCommand() *cobra.Command {
	var catalogDir string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the device type catalog",
	}
	cmd.PersistentFlags().StringVar(&catalogDir, "catalog", defaultCatalogDir, "device type catalog directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all device types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(catalogDir)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "browse",
		Short: "Browse device types interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogBrowse(catalogDir)
		},
	})

	return cmd
}

func runCatalogList(catalogDir string) error {
	cat, err := rack.LoadCatalogDir(catalogDir)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, cat.Len())
	for _, dt := range cat.Types() {
		rows = append(rows, deviceTypeRow(dt))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slug", "Model", "Height", "Depth", "Category", "Ports").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return StyleValue
		})

	fmt.Println(t.Render())
	printDetail("%d device type(s) in %s", cat.Len(), catalogDir)
	return nil
}

func runCatalogBrowse(catalogDir string) error {
	cat, err := rack.LoadCatalogDir(catalogDir)
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		printWarning("Catalog %s is empty", catalogDir)
		return nil
	}

	model := newCatalogModel(cat.Types())
	_, err = tea.NewProgram(model).Run()
	return err
}

// deviceTypeRow formats one catalog entry for table display.
func deviceTypeRow(dt rack.DeviceType) []string {
	depth := "half"
	if dt.IsFullDepth {
		depth = "full"
	}
	category := dt.Category
	if category == "" {
		category = "—"
	}
	return []string{
		dt.Slug,
		dt.DisplayName(),
		fmt.Sprintf("%gU", dt.UHeight),
		depth,
		category,
		strconv.Itoa(len(dt.Interfaces)),
	}
}
