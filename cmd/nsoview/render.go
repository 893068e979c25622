package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nsoview/nsoview/internal/api/game"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableHoursStyle  = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// renderGameTable renders the reshaped play-time entries as a styled table.
func renderGameTable(entries []game.Entry) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 2 {
				return tableHoursStyle
			}
			return tableCellStyle
		}).
		Headers("#", "Title", "Hours")

	for i, entry := range entries {
		t.Row(strconv.Itoa(i+1), entry.Title, strconv.FormatFloat(entry.TotalPlayedHours, 'f', 1, 64))
	}
	return t.Render()
}

// renderWebServiceTable renders the znc web-service listing.
func renderWebServiceTable(services []game.WebService) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("Service", "URI")

	for _, service := range services {
		t.Row(service.Name, service.URI)
	}
	return t.Render()
}
