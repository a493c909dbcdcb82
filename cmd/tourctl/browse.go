package main

import (
	"context"
	"fmt"
	"strings"

	"tourdesk/client"
	"tourdesk/models"

	tea "github.com/charmbracelet/bubbletea"
)

type toursMsg struct {
	page  int
	tours []models.Tour
	err   error
}

type detailMsg struct {
	id     string
	detail client.TourDetail
	err    error
}

// browser pages through the catalog and opens a tour's detail on enter.
type browser struct {
	ctx     context.Context
	c       *client.Client
	page    int
	tours   []models.Tour
	cursor  int
	loading bool
	err     error

	detail   *client.TourDetail
	detailID string
}

func newBrowser(ctx context.Context, c *client.Client) browser {
	return browser{ctx: ctx, c: c, loading: true}
}

func (m browser) loadPage(page int) tea.Cmd {
	return func() tea.Msg {
		tours, err := m.c.Tours(m.ctx, page)
		return toursMsg{page: page, tours: tours, err: err}
	}
}

func (m browser) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		d, err := m.c.Tour(m.ctx, id)
		return detailMsg{id: id, detail: d, err: err}
	}
}

func (m browser) Init() tea.Cmd {
	return m.loadPage(0)
}

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case toursMsg:
		// A reply for a page we already left.
		if msg.page != m.page {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.tours = msg.tours
			m.cursor = 0
		}
		return m, nil

	case detailMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			d := msg.detail
			m.detail = &d
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	if m.detailID != "" {
		if s := msg.String(); s == "esc" || s == "backspace" {
			m.detail, m.detailID, m.err = nil, "", nil
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tours)-1 {
			m.cursor++
		}
	case "right", "n":
		if len(m.tours) > 0 {
			m.page++
			m.loading = true
			return m, m.loadPage(m.page)
		}
	case "left", "p":
		if m.page > 0 {
			m.page--
			m.loading = true
			return m, m.loadPage(m.page)
		}
	case "enter":
		if len(m.tours) > 0 {
			m.detailID = m.tours[m.cursor].ID.Hex()
			m.loading = true
			return m, m.loadDetail(m.detailID)
		}
	}
	return m, nil
}

func (m browser) View() string {
	var b strings.Builder
	if m.detailID != "" {
		b.WriteString(m.detailView())
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("Tours · page %d", m.page)))
		b.WriteString("\n\n")
		b.WriteString(m.listView())
	}

	b.WriteString("\n\n")
	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("loading…"))
	case m.err != nil:
		b.WriteString(featuredStyle.Render("error: " + m.err.Error()))
	}
	b.WriteString("\n")
	if m.detailID != "" {
		b.WriteString(mutedStyle.Render("esc back · q quit"))
	} else {
		b.WriteString(mutedStyle.Render("↑/↓ move · ←/→ page · enter open · q quit"))
	}
	return b.String()
}

func (m browser) listView() string {
	if len(m.tours) == 0 {
		return mutedStyle.Render("no tours")
	}
	lines := []string{renderHeader()}
	for i, t := range m.tours {
		row := renderRow(tourCells(t))
		if i == m.cursor {
			row = selectedStyle.Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func (m browser) detailView() string {
	if m.detail == nil {
		return ""
	}
	t := m.detail.Tour
	var b strings.Builder
	b.WriteString(headerStyle.Render(t.Title))
	fmt.Fprintf(&b, "\n%s · %s · %s\n", t.City, t.Address, t.Distance)
	fmt.Fprintf(&b, "₹%.0f per person · up to %d people\n", t.Price, t.MaxGroupSize)
	if t.Desc != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Desc)
	}
	if len(t.Schedule) > 0 {
		b.WriteString("\n" + headerStyle.Render("Schedule") + "\n")
		for _, s := range t.Schedule {
			fmt.Fprintf(&b, "  Day %s  %s (%s)\n", s.Day, s.Description, s.Location)
		}
	}
	b.WriteString("\n" + headerStyle.Render(fmt.Sprintf("Reviews · %.1f avg", m.detail.AvgRating)) + "\n")
	if len(t.Reviews) == 0 {
		b.WriteString(mutedStyle.Render("  none yet"))
	}
	for _, r := range t.Reviews {
		fmt.Fprintf(&b, "  %s %s  %s\n", strings.Repeat("★", max(r.Rating, 0)), r.Username, r.ReviewText)
	}
	return b.String()
}
