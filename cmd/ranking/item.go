package ranking

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sumwatshade/fueldash/cmd/client"
)

var (
	itemTitleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true)
	itemDescStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	itemPriceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	selectedTitleStyle = itemTitleStyle.Foreground(lipgloss.Color("51"))
	selectedDescStyle  = itemDescStyle.Foreground(lipgloss.Color("250"))
	noLocationStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type entryItem struct {
	client.RankingEntry
	rank int
}

func (i entryItem) Title() string {
	return fmt.Sprintf("%d. %s", i.rank, i.StationLabel)
}

func (i entryItem) Description() string {
	if i.Address == "" {
		return i.FuelType
	}
	return i.Address
}

func (i entryItem) FilterValue() string { return i.StationLabel }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(entryItem)
	if !ok {
		io.WriteString(w, "?")
		return
	}
	title := itemTitleStyle.Render(it.Title())
	desc := itemDescStyle.Render(it.Description())
	if index == m.Index() {
		title = selectedTitleStyle.Render("▸ " + it.Title())
		desc = selectedDescStyle.Render("  " + it.Description())
	}
	price := itemPriceStyle.Render(it.Price.StringFixed(1))
	if !it.HasCoordinates() {
		desc += " " + noLocationStyle.Render("(no map location)")
	}
	io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, title+"  "+price, desc))
}
