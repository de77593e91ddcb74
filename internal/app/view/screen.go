package view

import "github.com/yigit/schoolportal/internal/app/models"

// Screen is everything a read-only record page shows at once: the layout
// tabs, the section tabs of the active layout, the active section and, when
// it has any, the active sub-section.
type Screen struct {
	Layouts []Tab
	Page    Page
	Tabs    []Tab
	Section PageSection
	SubTabs []Tab
	Sub     *PageSection
}

// Navigate renders doc with the named layout and selects section and sub.
// Unknown names fall back to the first entry at each level.
func Navigate(doc models.Document, layouts []Layout, layout, section, sub string) Screen {
	if len(layouts) == 0 {
		return Screen{}
	}
	active := layouts[0]
	for _, l := range layouts {
		if l.Name == layout {
			active = l
			break
		}
	}

	screen := Screen{Page: Render(doc, active)}
	for _, l := range layouts {
		screen.Layouts = append(screen.Layouts, Tab{ID: l.Name, Title: l.Title, Active: l.Name == active.Name})
	}
	screen.Tabs = screen.Page.Tabs(section)
	screen.Section, _ = screen.Page.Section(section)

	if len(screen.Section.Subsections) > 0 {
		current, _ := screen.Section.Subsection(sub)
		screen.Sub = &current
		for _, s := range screen.Section.Subsections {
			screen.SubTabs = append(screen.SubTabs, Tab{ID: s.ID, Title: s.Title, Active: s.ID == current.ID})
		}
	}
	return screen
}

// StudentRecord is the pair of layouts shown for a student.
var StudentRecord = []Layout{StudentDetails, CaseRecord}
