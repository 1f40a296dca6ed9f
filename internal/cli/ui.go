package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/railroute/pkg/planner"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // stations, clocks
	colorGreen  = lipgloss.Color("35")  // success, reachable
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors, unreachable
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // headers
	colorDim    = lipgloss.Color("240") // muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints an output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints timetable statistics on a single line.
func printStats(plan *planner.Plan) {
	parts := []string{
		fmt.Sprintf("%d stations", plan.Graph.VertexCount()),
		fmt.Sprintf("%d trips", plan.Graph.TripCount()),
		fmt.Sprintf("%d connections", plan.Stats.Legs),
	}

	status := iconFresh
	statusStyle := styleComputed
	if plan.CacheInfo.TablesHit {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Println(line)
}

// =============================================================================
// Itineraries & Schedules
// =============================================================================

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// formatMinutes renders a duration in minutes as "2h 05m" or "45m".
func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

// renderRoute formats an itinerary as a table of rides and a totals line.
func renderRoute(s planner.Summary) string {
	rows := make([][]string, 0, len(s.Rides))
	for i, r := range s.Rides {
		wait := ""
		if i < len(s.Rides)-1 {
			wait = formatMinutes(r.Layover)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.From.String(),
			r.To.String(),
			r.Departure.String(),
			r.Arrival.String(),
			formatMinutes(r.Minutes),
			wait,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "From", "To", "Departs", "Arrives", "Ride", "Wait").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 3 || col == 4:
				return StyleNumber
			case col == 6:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render(s.From.String() + " " + iconArrow + " " + s.To.String()))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("total ") + StyleValue.Render(formatMinutes(s.TotalMinutes)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  (ride %s · layover %s)",
		formatMinutes(s.RideMinutes), formatMinutes(s.LayoverMinutes))))
	return b.String()
}

// renderSchedule formats one station's departures and arrivals.
func renderSchedule(s planner.Schedule) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s (%d)", s.Station, s.Station.ID)))
	b.WriteString("\n")
	b.WriteString(scheduleTable("Departures", "To", s.Departures, func(r planner.Ride) string { return r.To.String() }))
	b.WriteString("\n")
	b.WriteString(scheduleTable("Arrivals", "From", s.Arrivals, func(r planner.Ride) string { return r.From.String() }))
	return b.String()
}

func scheduleTable(title, other string, rides []planner.Ride, station func(planner.Ride) string) string {
	if len(rides) == 0 {
		return StyleDim.Render("  no " + strings.ToLower(title))
	}
	rows := make([][]string, 0, len(rides))
	for _, r := range rides {
		rows = append(rows, []string{station(r), r.Departure.String(), r.Arrival.String(), formatMinutes(r.Minutes)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(other, "Departs", "Arrives", "Ride").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 1 || col == 2 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
	return StyleHighlight.Render(title) + "\n" + t.Render()
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
