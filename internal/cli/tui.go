package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rackworks/rackviz/pkg/rack"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// catalogModel - Interactive device type browser
// =============================================================================

// catalogModel is the bubbletea model for browsing the catalog. The
// main view is a scrolling table; enter toggles an interface detail
// pane for the selected device type.
type catalogModel struct {
	types    []rack.DeviceType
	cursor   int
	height   int
	offset   int
	expanded bool
}

func newCatalogModel(types []rack.DeviceType) catalogModel {
	return catalogModel{
		types:  types,
		height: 15,
	}
}

func (m catalogModel) Init() tea.Cmd {
	return nil
}

func (m catalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.types)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.expanded = !m.expanded
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m catalogModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Device Type Catalog"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle ports  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.types) {
		end = len(m.types)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, deviceTypeRow(m.types[i])...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Slug", "Model", "Height", "Depth", "Category", "Ports").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.expanded {
		b.WriteString(m.interfaceView())
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.types))))
	return b.String()
}

// interfaceView renders the interface list for the selected device type.
func (m catalogModel) interfaceView() string {
	dt := m.types[m.cursor]
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("  " + dt.DisplayName()))
	b.WriteString("\n")
	if len(dt.Interfaces) == 0 {
		b.WriteString(listDimStyle.Render("  no interfaces"))
		b.WriteString("\n")
		return b.String()
	}

	// Group consecutive interfaces of the same type into one line.
	counts := make(map[string]int)
	order := []string{}
	for _, iface := range dt.Interfaces {
		key := iface.Type
		if iface.MgmtOnly {
			key += " (mgmt)"
		}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}
	for _, key := range order {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			StyleValue.Render(fmt.Sprintf("%3d ×", counts[key])),
			listDimStyle.Render(key)))
	}
	return b.String()
}
