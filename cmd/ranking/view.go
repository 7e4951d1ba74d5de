package ranking

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sumwatshade/fueldash/cmd/fuel"
	"github.com/sumwatshade/fueldash/cmd/stamp"
)

// lines used around the list: tabs, title, banner and footer
const listChrome = 6

var (
	rankingTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	tabStyle          = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("247"))
	activeTabStyle    = tabStyle.Bold(true).Foreground(lipgloss.Color("51")).Background(lipgloss.Color("236"))
	infoStyle         = lipgloss.NewStyle().Faint(true)
	emptyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	spinnerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	paginationStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// View renders tabs, the ranked list and its loading/error/empty states.
// Loading, failure and "no data" are always rendered differently.
func (s *State) View() string {
	b := &strings.Builder{}
	b.WriteString(s.tabs())
	b.WriteString("\n")

	v := s.visible()
	title := fmt.Sprintf("Cheapest %s", s.selected.Label())
	if v != nil && v.Title != "" {
		title = v.Title
	}
	b.WriteString(rankingTitleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case s.phase == Idle:
		b.WriteString(infoStyle.Render("Waiting to load prices..."))
		return b.String()
	case v == nil && s.phase == Loading:
		b.WriteString(s.spinner.View() + " " + infoStyle.Render("Loading "+s.selected.Label()+" prices..."))
		return b.String()
	case v == nil && s.phase == Failed:
		b.WriteString(errStyle.Render("Could not load " + s.selected.Label() + " prices: " + errText(s.err)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("press r to retry"))
		return b.String()
	}

	// banners above last-good data
	switch s.phase {
	case Loading:
		b.WriteString(s.spinner.View() + " " + infoStyle.Render("refreshing..."))
		b.WriteString("\n")
	case Failed:
		b.WriteString(errStyle.Render("⚠ refresh failed: " + errText(s.err)))
		b.WriteString("\n")
		if v.FuelType != s.selected {
			b.WriteString(infoStyle.Render("showing last good " + v.FuelType.Label() + " prices"))
			b.WriteString("\n")
		}
	}

	if len(v.Entries) == 0 {
		b.WriteString(emptyStyle.Render("No data available for " + v.FuelType.Label()))
	} else {
		b.WriteString(s.list.View())
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("Total Records: %d", v.TotalRecords)
	if v.UpdatedRaw != "" {
		footer += " | Updated " + stamp.Display(v.UpdatedRaw, s.loc)
	}
	b.WriteString(infoStyle.Render(footer))
	return b.String()
}

func (s *State) tabs() string {
	var rendered []string
	for _, f := range fuel.All() {
		if f == s.selected {
			rendered = append(rendered, activeTabStyle.Render(f.Label()))
		} else {
			rendered = append(rendered, tabStyle.Render(f.Label()))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if s.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(s.width).Render(line)
	}
	return line
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
