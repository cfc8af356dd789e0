package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
)

var stationColumns = []string{"Station", "Town", "Elev (m)", "Seq", "Route km", "Prev km", "Next km"}

// openStationTable fills the table with the stations of a route. Routes
// without markers leave the table closed.
func (m *Model) openStationTable(route string) {
	g, ok := m.mp.Group(route)
	if !ok || len(g.Markers) == 0 {
		m.showTable = false
		m.status = fmt.Sprintf("no stations for %s", route)
		return
	}

	tcols := make([]table.Column, 0, len(stationColumns)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	widths := make([]int, len(stationColumns))
	for i, c := range stationColumns {
		widths[i] = len(c) + 2
	}

	trows := make([]table.Row, 0, len(g.Markers))
	for i, mk := range g.Markers {
		s := mk.Info
		cells := []string{s.Station, s.Town, s.Elevation, s.Seq, s.RouteDistance, s.PrevDist, s.NextDist}
		for j, c := range cells {
			widths[j] = max(widths[j], len([]rune(c))+2)
		}
		row := make([]string, 0, len(cells)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, cells...)
		trows = append(trows, table.Row(row))
	}
	for i, c := range stationColumns {
		tcols = append(tcols, table.Column{Title: c, Width: min(widths[i], maxColW)})
	}

	// Clear rows before swapping columns so the table never renders a mismatch.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	m.tbl.GotoTop()
	m.showTable = true
	m.tblRoute = route
	m.status = fmt.Sprintf("%s: %d stations", route, len(trows))
}
