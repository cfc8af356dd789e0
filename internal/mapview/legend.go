package mapview

import "strings"

const (
	CollapseIcon = "✖"
	ExpandIcon   = "☰"
)

// LegendRow is one checkbox entry of the legend.
type LegendRow struct {
	Route   string
	Label   string
	Color   string
	Checked bool
	// Hidden is set when the row does not match the filter text.
	Hidden bool
}

// Legend mirrors the route groups as checkbox rows. Filtering and collapsing
// only change what the legend shows, never which routes are on the map.
type Legend struct {
	Rows      []*LegendRow
	Collapsed bool
	Query     string
}

func newLegend(groups []*RouteGroup) *Legend {
	l := &Legend{}
	for _, g := range groups {
		l.Rows = append(l.Rows, &LegendRow{
			Route:   g.Name,
			Label:   g.Label(),
			Color:   g.Color,
			Checked: g.Visible,
		})
	}
	return l
}

func (l *Legend) row(route string) *LegendRow {
	for _, r := range l.Rows {
		if r.Route == route {
			return r
		}
	}
	return nil
}

// Filter hides rows whose label does not contain q, ignoring case and
// surrounding space. An empty query shows every row.
func (l *Legend) Filter(q string) {
	l.Query = q
	q = strings.ToLower(strings.TrimSpace(q))
	for _, r := range l.Rows {
		r.Hidden = q != "" && !strings.Contains(strings.ToLower(r.Label), q)
	}
}

// ToggleCollapsed flips the collapsed state and returns the icon to show.
func (l *Legend) ToggleCollapsed() string {
	l.Collapsed = !l.Collapsed
	return l.Icon()
}

func (l *Legend) Icon() string {
	if l.Collapsed {
		return ExpandIcon
	}
	return CollapseIcon
}

// VisibleRows returns the rows the filter lets through, or none when collapsed.
func (l *Legend) VisibleRows() []*LegendRow {
	if l.Collapsed {
		return nil
	}
	var out []*LegendRow
	for _, r := range l.Rows {
		if !r.Hidden {
			out = append(out, r)
		}
	}
	return out
}
