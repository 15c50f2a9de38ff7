package tui

import "strings"

// FocusMove is a relative or absolute tab movement.
type FocusMove int

const (
	MoveNext FocusMove = iota
	MovePrevious
	MoveFirst
	MoveLast
)

// Tab is one labeled entry in the tab bar.
type Tab struct {
	ID    string
	Title string
}

// TabBar holds an ordered set of tabs with exactly one active at a time.
// Movement wraps at both ends.
type TabBar struct {
	tabs   []Tab
	active int
}

func NewTabBar(tabs ...Tab) *TabBar {
	return &TabBar{tabs: tabs}
}

// Active returns the currently active tab. The bar always has one.
func (b *TabBar) Active() Tab {
	if len(b.tabs) == 0 {
		return Tab{}
	}
	return b.tabs[b.active]
}

func (b *TabBar) ActiveID() string { return b.Active().ID }

// Activate switches to the tab with the given id and reports whether it
// exists. An unknown id leaves the bar untouched.
func (b *TabBar) Activate(id string) bool {
	for i, t := range b.tabs {
		if t.ID == id {
			b.active = i
			return true
		}
	}
	return false
}

// MoveFocus shifts the active tab, wrapping past either end.
func (b *TabBar) MoveFocus(m FocusMove) {
	if len(b.tabs) == 0 {
		return
	}
	switch m {
	case MoveNext:
		b.active = (b.active + 1) % len(b.tabs)
	case MovePrevious:
		b.active = (b.active - 1 + len(b.tabs)) % len(b.tabs)
	case MoveFirst:
		b.active = 0
	case MoveLast:
		b.active = len(b.tabs) - 1
	}
}

// Render draws the bar as a single line.
func (b *TabBar) Render() string {
	parts := make([]string, 0, len(b.tabs))
	for i, t := range b.tabs {
		if i == b.active {
			parts = append(parts, activeTabStyle.Render(t.Title))
		} else {
			parts = append(parts, inactiveTabStyle.Render(t.Title))
		}
	}
	return strings.Join(parts, tabSepStyle.Render("│"))
}
