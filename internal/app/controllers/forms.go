// Package controllers handles HTTP request handling
package controllers

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolportal/internal/app/models"
)

// rowEdit is one posted cell of a repeatable table, named
// "<table>.<rowID>.<field>".
type rowEdit struct {
	RowID string
	Field string
	Value string
}

// postedFields returns the posted values of the named fields. Fields that
// were not posted are left out so they keep their stored value.
func postedFields(c *gin.Context, names []string) map[string]string {
	_ = c.Request.ParseForm()
	values := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := c.GetPostForm(name); ok {
			values[name] = v
		}
	}
	return values
}

// postedRows returns the posted cells of table in a stable order.
func postedRows(c *gin.Context, table string) []rowEdit {
	_ = c.Request.ParseForm()
	prefix := table + "."

	var edits []rowEdit
	for key, vals := range c.Request.PostForm {
		if !strings.HasPrefix(key, prefix) || len(vals) == 0 {
			continue
		}
		rowID, field, ok := strings.Cut(strings.TrimPrefix(key, prefix), ".")
		if !ok || rowID == "" || field == "" {
			continue
		}
		edits = append(edits, rowEdit{RowID: rowID, Field: field, Value: vals[0]})
	}
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].RowID != edits[j].RowID {
			return edits[i].RowID < edits[j].RowID
		}
		return edits[i].Field < edits[j].Field
	})
	return edits
}

// postedDays returns the checked weekdays of one assignment row.
func postedDays(c *gin.Context, rowID string) ([]string, bool) {
	days, ok := c.GetPostFormArray("assignments." + rowID + ".days")
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		if d != "" {
			out = append(out, d)
		}
	}
	return out, true
}

// parseAction splits a submit button value such as "remove-drugs:<rowID>".
func parseAction(raw string) (verb, arg string) {
	verb, arg, _ = strings.Cut(raw, ":")
	return verb, arg
}

// startPage is the data of the page whose only button opens a new draft.
func startPage(session *models.Session, title, action, button string) gin.H {
	return gin.H{
		"Title":   title,
		"Session": session,
		"Action":  action,
		"Button":  button,
	}
}

func formOf(values map[string]string) models.FormState {
	return models.FormState{}.Merge(values)
}
