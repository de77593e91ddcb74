package view

import (
	"sort"

	"github.com/yigit/schoolportal/internal/app/models"
)

// Field is one labelled value read from Path.
type Field struct {
	Label string
	Path  string
}

// Table renders the list at Path, one row per element. Column paths are
// relative to the element.
type Table struct {
	Title   string
	Path    string
	Columns []Field
	Empty   string
}

// Section is a tab or sub-tab of a layout. Dynamic names an object whose
// keys are not known in advance; each key becomes a row.
type Section struct {
	ID          string
	Title       string
	Fields      []Field
	Tables      []Table
	Dynamic     string
	Subsections []Section
}

// Layout is a declarative page description.
type Layout struct {
	Name     string
	Title    string
	Sections []Section
}

// Pair is a rendered label and value.
type Pair struct {
	Label string
	Value string
}

// PageTable is a rendered table. The first column is always the display
// sequence number.
type PageTable struct {
	Title   string
	Headers []string
	Rows    [][]string
	Empty   string
}

// PageSection is a rendered Section.
type PageSection struct {
	ID          string
	Title       string
	Pairs       []Pair
	Tables      []PageTable
	Subsections []PageSection
}

// Page is the result of Render.
type Page struct {
	Name     string
	Title    string
	Sections []PageSection
}

// Tab is a navigation entry.
type Tab struct {
	ID     string
	Title  string
	Active bool
}

// Render produces a Page for doc. doc may be nil; every field then reads
// Placeholder.
func Render(doc models.Document, layout Layout) Page {
	page := Page{
		Name:     layout.Name,
		Title:    layout.Title,
		Sections: make([]PageSection, 0, len(layout.Sections)),
	}
	for _, s := range layout.Sections {
		page.Sections = append(page.Sections, renderSection(doc, s))
	}
	return page
}

// Section returns the section with id, or the first one when id is unknown.
func (p Page) Section(id string) (PageSection, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	if len(p.Sections) > 0 {
		return p.Sections[0], false
	}
	return PageSection{}, false
}

// Tabs lists the top-level sections, marking active.
func (p Page) Tabs(active string) []Tab {
	current, _ := p.Section(active)
	tabs := make([]Tab, len(p.Sections))
	for i, s := range p.Sections {
		tabs[i] = Tab{ID: s.ID, Title: s.Title, Active: s.ID == current.ID}
	}
	return tabs
}

// Subsection returns the sub-tab with id, or the first one.
func (s PageSection) Subsection(id string) (PageSection, bool) {
	for _, sub := range s.Subsections {
		if sub.ID == id {
			return sub, true
		}
	}
	if len(s.Subsections) > 0 {
		return s.Subsections[0], false
	}
	return PageSection{}, false
}

func renderSection(doc models.Document, s Section) PageSection {
	out := PageSection{ID: s.ID, Title: s.Title}

	for _, f := range s.Fields {
		out.Pairs = append(out.Pairs, Pair{Label: f.Label, Value: Lookup(doc, f.Path)})
	}

	if s.Dynamic != "" {
		out.Pairs = append(out.Pairs, dynamicPairs(doc, s.Dynamic)...)
	}

	for _, t := range s.Tables {
		out.Tables = append(out.Tables, renderTable(doc, t))
	}

	for _, sub := range s.Subsections {
		out.Subsections = append(out.Subsections, renderSection(doc, sub))
	}
	return out
}

func dynamicPairs(doc models.Document, path string) []Pair {
	v, ok := resolve(map[string]interface{}(doc), path)
	if !ok {
		return nil
	}
	obj, ok := v.(map[string]interface{})
	if !ok || len(obj) == 0 {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Label: Humanize(k), Value: Format(obj[k])})
	}
	return pairs
}

func renderTable(doc models.Document, t Table) PageTable {
	out := PageTable{Title: t.Title, Empty: t.Empty}
	out.Headers = append(out.Headers, "S.No")
	for _, c := range t.Columns {
		out.Headers = append(out.Headers, c.Label)
	}

	v, ok := resolve(map[string]interface{}(doc), t.Path)
	if !ok {
		return out
	}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for i, item := range items {
		row := make([]string, 0, len(t.Columns)+1)
		row = append(row, Format(models.Seq(i)))
		for _, c := range t.Columns {
			cell, found := resolve(item, c.Path)
			if !found {
				row = append(row, Placeholder)
				continue
			}
			row = append(row, Format(cell))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
