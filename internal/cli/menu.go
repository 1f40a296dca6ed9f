package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railroute/pkg/errors"
	"github.com/matzehuels/railroute/pkg/planner"
)

var (
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	menuNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	menuKeyStyle      = lipgloss.NewStyle().Foreground(colorBlue)
	menuErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// menuCommand starts the interactive numeric menu.
func (c *CLI) menuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu over the timetable queries",
		Long: `Open a menu listing every query. Press a digit to choose one, answer
the prompts, and press 0 or q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := c.loadPlan(ctx)
			if err != nil {
				return userError(err)
			}
			_, err = tea.NewProgram(NewMenuModel(ctx, plan), tea.WithContext(ctx)).Run()
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		},
	}
}

// =============================================================================
// Menu actions
// =============================================================================

// menuAction is one numbered menu entry. run receives one answer per prompt.
type menuAction struct {
	key     string
	label   string
	prompts []string
	run     func(ctx context.Context, plan *planner.Plan, answers []string) (string, error)
}

var pairPrompts = []string{"From station", "To station"}

func menuActions() []menuAction {
	return []menuAction{
		{key: "1", label: "Print complete schedule", run: menuSchedules},
		{key: "2", label: "Print station schedule", prompts: []string{"Station"}, run: menuSchedule},
		{key: "3", label: "Look up station name", prompts: []string{"Station ID"}, run: menuStationName},
		{key: "4", label: "Look up station ID", prompts: []string{"Station name"}, run: menuStationID},
		{key: "5", label: "Is there a connection?", prompts: pairPrompts, run: menuPath(false)},
		{key: "6", label: "Is there a direct train?", prompts: pairPrompts, run: menuPath(true)},
		{key: "7", label: "Shortest ride time", prompts: pairPrompts, run: menuRoute(routeOpts{rideOnly: true})},
		{key: "8", label: "Shortest trip with layovers", prompts: pairPrompts, run: menuRoute(routeOpts{})},
		{key: "9", label: "Shortest trip leaving at", prompts: append(pairPrompts[:2:2], "Departure (HHMM)"), run: menuRouteAt},
	}
}

func menuSchedules(_ context.Context, plan *planner.Plan, _ []string) (string, error) {
	parts := make([]string, 0, plan.Graph.VertexCount())
	for _, s := range plan.Schedules() {
		parts = append(parts, renderSchedule(s))
	}
	return strings.Join(parts, "\n\n"), nil
}

func menuSchedule(_ context.Context, plan *planner.Plan, a []string) (string, error) {
	id, err := resolveStation(plan, a[0])
	if err != nil {
		return "", err
	}
	s, err := plan.Schedule(id)
	if err != nil {
		return "", err
	}
	return renderSchedule(s), nil
}

func menuStationName(_ context.Context, plan *planner.Plan, a []string) (string, error) {
	id, err := strconv.Atoi(strings.TrimSpace(a[0]))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidStation, err, "station ID must be a number, got %q", a[0])
	}
	name, err := plan.StationName(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Station %d is %s", id, name), nil
}

func menuStationID(_ context.Context, plan *planner.Plan, a []string) (string, error) {
	id, err := plan.StationID(strings.TrimSpace(a[0]))
	if err != nil {
		return "", err
	}
	name, _ := plan.StationName(id)
	return fmt.Sprintf("%s is station %d", name, id), nil
}

func menuPath(direct bool) func(context.Context, *planner.Plan, []string) (string, error) {
	return func(ctx context.Context, plan *planner.Plan, a []string) (string, error) {
		origin, dest, err := resolvePair(plan, a[0], a[1])
		if err != nil {
			return "", err
		}
		ok, err := queryPath(ctx, plan, origin, dest, direct)
		if err != nil {
			return "", err
		}
		return describePath(plan, origin, dest, direct, ok), nil
	}
}

func menuRoute(opts routeOpts) func(context.Context, *planner.Plan, []string) (string, error) {
	return func(ctx context.Context, plan *planner.Plan, a []string) (string, error) {
		origin, dest, err := resolvePair(plan, a[0], a[1])
		if err != nil {
			return "", err
		}
		s, err := queryRoute(ctx, plan, origin, dest, opts)
		if err != nil {
			return "", err
		}
		return renderRoute(s), nil
	}
}

func menuRouteAt(ctx context.Context, plan *planner.Plan, a []string) (string, error) {
	return menuRoute(routeOpts{at: strings.TrimSpace(a[2])})(ctx, plan, a[:2])
}

// =============================================================================
// MenuModel
// =============================================================================

// MenuModel is the bubbletea model of the interactive menu.
type MenuModel struct {
	ctx     context.Context
	plan    *planner.Plan
	actions []menuAction

	Cursor  int
	Active  int // index of the action being answered, -1 in the menu
	Answers []string
	Input   string
	Output  string
	Err     error
}

// NewMenuModel creates the menu for plan.
func NewMenuModel(ctx context.Context, plan *planner.Plan) MenuModel {
	return MenuModel{ctx: ctx, plan: plan, actions: menuActions(), Active: -1}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.Active >= 0 {
		return m.updatePrompt(key)
	}

	switch s := key.String(); s {
	case "0", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.actions)-1 {
			m.Cursor++
		}
	case "enter":
		return m.choose(m.Cursor)
	default:
		for i, a := range m.actions {
			if a.key == s {
				m.Cursor = i
				return m.choose(i)
			}
		}
	}
	return m, nil
}

// choose starts action i, running it at once when it has no prompts.
func (m MenuModel) choose(i int) (tea.Model, tea.Cmd) {
	m.Active = i
	m.Answers = nil
	m.Input = ""
	m.Output, m.Err = "", nil
	if len(m.actions[i].prompts) == 0 {
		m = m.run()
	}
	return m, nil
}

func (m MenuModel) updatePrompt(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.Active = -1
		m.Answers, m.Input = nil, ""
	case tea.KeyEnter:
		m.Answers = append(m.Answers, m.Input)
		m.Input = ""
		if len(m.Answers) == len(m.actions[m.Active].prompts) {
			m = m.run()
		}
	case tea.KeyBackspace:
		if r := []rune(m.Input); len(r) > 0 {
			m.Input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.Input += " "
	case tea.KeyRunes:
		m.Input += string(key.Runes)
	}
	return m, nil
}

// run executes the active action with the collected answers and returns to
// the menu.
func (m MenuModel) run() MenuModel {
	a := m.actions[m.Active]
	out, err := a.run(m.ctx, m.plan, m.Answers)
	m.Output, m.Err = out, err
	m.Active = -1
	m.Answers = nil
	return m
}

func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Railroute"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("1-9 choose  ↑/↓ navigate  ⏎ select  0 quit"))
	b.WriteString("\n\n")

	for i, a := range m.actions {
		cursor := "  "
		style := menuNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = menuSelectedStyle
		}
		b.WriteString(cursor + menuKeyStyle.Render(a.key) + " " + style.Render(a.label) + "\n")
	}
	b.WriteString("  " + menuKeyStyle.Render("0") + " " + menuNormalStyle.Render("Quit") + "\n\n")

	if m.Active >= 0 {
		a := m.actions[m.Active]
		for i, answer := range m.Answers {
			b.WriteString(StyleDim.Render(a.prompts[i]+": ") + answer + "\n")
		}
		b.WriteString(StyleHighlight.Render(a.prompts[len(m.Answers)]+": ") + m.Input + "█\n")
		return b.String()
	}

	switch {
	case m.Err != nil:
		b.WriteString(menuErrorStyle.Render(iconError + " " + errors.UserMessage(m.Err)))
		b.WriteString("\n")
	case m.Output != "":
		b.WriteString(m.Output)
		b.WriteString("\n")
	}
	return b.String()
}
