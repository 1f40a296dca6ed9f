package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/railroute/pkg/errors"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// press feeds keys to m and returns the resulting model and last command.
func press(t *testing.T, m MenuModel, keys ...tea.KeyMsg) (MenuModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(MenuModel)
	}
	return m, cmd
}

// answer types each value followed by enter.
func answer(values ...string) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for _, v := range values {
		keys = append(keys, runes(v), enter)
	}
	return keys
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestMenuQuit(t *testing.T) {
	m := NewMenuModel(context.Background(), testPlan(t))

	for _, k := range []tea.KeyMsg{runes("0"), runes("q"), esc, {Type: tea.KeyCtrlC}} {
		if _, cmd := press(t, m, k); !isQuit(cmd) {
			t.Errorf("key %q should quit", k.String())
		}
	}
}

func TestMenuActions(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want []string
	}{
		{"complete schedule", []tea.KeyMsg{runes("1")}, []string{"Central (1)", "Depot (4)"}},
		{"station schedule", append([]tea.KeyMsg{runes("2")}, answer("2")...), []string{"Harbour (2)", "Summit"}},
		{"station name", append([]tea.KeyMsg{runes("3")}, answer("3")...), []string{"Station 3 is Summit"}},
		{"station id", append([]tea.KeyMsg{runes("4")}, answer("depot")...), []string{"Depot is station 4"}},
		{"connection", append([]tea.KeyMsg{runes("5")}, answer("1", "3")...), []string{"There is a connection"}},
		{"direct train", append([]tea.KeyMsg{runes("6")}, answer("Central", "Summit")...), []string{"There is no direct train"}},
		{"ride time", append([]tea.KeyMsg{runes("7")}, answer("1", "3")...), []string{"02:30", "ride 1h 10m"}},
		{"layovers", append([]tea.KeyMsg{runes("8")}, answer("1", "3")...), []string{"08:00", "2h 00m"}},
		{"leaving at", append([]tea.KeyMsg{runes("9")}, answer("1", "3", "1430")...), []string{"02:30", "7h 30m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(t, NewMenuModel(context.Background(), testPlan(t)), tt.keys...)
			if isQuit(cmd) {
				t.Fatal("action quit the menu")
			}
			if m.Err != nil {
				t.Fatalf("action error: %v", m.Err)
			}
			if m.Active != -1 {
				t.Fatalf("menu did not return after the action, active = %d", m.Active)
			}
			for _, w := range tt.want {
				if !strings.Contains(m.Output, w) {
					t.Errorf("output missing %q:\n%s", w, m.Output)
				}
			}
		})
	}
}

func TestMenuErrors(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		code errors.Code
	}{
		{"id not a number", append([]tea.KeyMsg{runes("3")}, answer("x")...), errors.ErrCodeInvalidStation},
		{"unknown station", append([]tea.KeyMsg{runes("8")}, answer("1", "Atlantis")...), errors.ErrCodeStationNotFound},
		{"no route", append([]tea.KeyMsg{runes("8")}, answer("1", "4")...), errors.ErrCodeNoRoute},
		{"bad clock", append([]tea.KeyMsg{runes("9")}, answer("1", "3", "2500")...), errors.ErrCodeInvalidClock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(t, NewMenuModel(context.Background(), testPlan(t)), tt.keys...)
			if !errors.Is(m.Err, tt.code) {
				t.Fatalf("error = %v, want %s", m.Err, tt.code)
			}
			if !strings.Contains(m.View(), errors.UserMessage(m.Err)) {
				t.Error("view should show the error message")
			}
		})
	}
}

func TestMenuPromptEditing(t *testing.T) {
	m := NewMenuModel(context.Background(), testPlan(t))

	m, cmd := press(t, m, runes("4"), runes("q"), runes("0"))
	if isQuit(cmd) {
		t.Fatal("typing in a prompt must not quit")
	}
	if m.Input != "q0" {
		t.Fatalf("input = %q, want q0", m.Input)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = press(t, m, runes("Depot"), tea.KeyMsg{Type: tea.KeySpace})
	if m.Input != "Depot " {
		t.Fatalf("input = %q", m.Input)
	}
	if !strings.Contains(m.View(), "Station name: Depot") {
		t.Errorf("view should show the prompt:\n%s", m.View())
	}

	m, _ = press(t, m, esc)
	if m.Active != -1 || m.Input != "" || m.Output != "" {
		t.Errorf("esc should cancel the prompt: %+v", m)
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(context.Background(), testPlan(t))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first entry: %d", m.Cursor)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
	if m.Cursor != 3 {
		t.Fatalf("cursor = %d, want 3", m.Cursor)
	}

	m, _ = press(t, m, enter)
	if m.Active != 3 {
		t.Fatalf("enter should start entry 4, active = %d", m.Active)
	}
	m, _ = press(t, m, answer("summit")...)
	if !strings.Contains(m.Output, "Summit is station 3") {
		t.Errorf("output = %q", m.Output)
	}
}
