package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	appAuth "github.com/yigit/schoolportal/internal/app/auth"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/view"
)

var (
	drugColumns      = []string{"name", "dose"}
	householdColumns = []string{"name", "age", "education", "occupation", "health", "income"}
)

func fieldFlag() cli.Flag {
	return &cli.StringSliceFlag{Name: "field", Aliases: []string{"f"}, Usage: "form field as name=value, repeatable"}
}

func idFlag(usage string) cli.Flag {
	return &cli.StringFlag{Name: "id", Usage: usage}
}

func studentCommand() *cli.Command {
	return &cli.Command{
		Name:  "student",
		Usage: "create, update and view students",
		Subcommands: []*cli.Command{
			{
				Name:   "save",
				Usage:  "create a student, or update the one given by --id",
				Flags:  []cli.Flag{fieldFlag(), idFlag("student ID")},
				Action: saveStudent,
			},
			{
				Name:  "case-record",
				Usage: "replace the case record of the student given by --id",
				Flags: []cli.Flag{
					fieldFlag(),
					&cli.StringFlag{Name: "id", Usage: "student ID", Required: true},
					&cli.StringSliceFlag{Name: "drug", Usage: "medication row as name|dose, repeatable"},
					&cli.StringSliceFlag{Name: "household", Usage: "household row as name|age|education|occupation|health|income, repeatable"},
				},
				Action: saveCaseRecord,
			},
			{
				Name:  "show",
				Usage: "print a student record, your own when --id is omitted",
				Flags: []cli.Flag{
					idFlag("student ID"),
					&cli.StringFlag{Name: "layout", Value: view.LayoutStudent, Usage: "student or case-record"},
				},
				Action: showStudent,
			},
		},
	}
}

func saveStudent(c *cli.Context) error {
	rt := newRuntime(c)
	ctx := c.Context

	values, err := formFields(c, view.StudentForm)
	if err != nil {
		return err
	}
	session, err := rt.staffSession(c)
	if err != nil {
		return err
	}

	draft, err := rt.openStudent(ctx, session, c.String("id"))
	if err != nil {
		return rt.fail(err)
	}
	if _, err := rt.services.Students.UpdateFields(ctx, session, draft.ID, values); err != nil {
		return rt.fail(err)
	}

	saved, err := rt.services.Students.SaveStudent(ctx, session, draft.ID)
	if err != nil {
		return rt.fail(err)
	}
	id, _ := saved.Student.ID()
	rt.printf("Student saved. ID: %s\n", id)
	return nil
}

func saveCaseRecord(c *cli.Context) error {
	rt := newRuntime(c)
	ctx := c.Context

	values, err := formFields(c, view.CaseRecordForm)
	if err != nil {
		return err
	}
	session, err := rt.staffSession(c)
	if err != nil {
		return err
	}

	draft, err := rt.openStudent(ctx, session, c.String("id"))
	if err != nil {
		return rt.fail(err)
	}
	if _, err := rt.services.Students.UpdateFields(ctx, session, draft.ID, values); err != nil {
		return rt.fail(err)
	}
	if err := rt.fillRows(ctx, session, draft.ID, services.TableDrugs, drugColumns, c.StringSlice("drug")); err != nil {
		return err
	}
	if err := rt.fillRows(ctx, session, draft.ID, services.TableHousehold, householdColumns, c.StringSlice("household")); err != nil {
		return err
	}

	if _, err := rt.services.Students.SaveCaseRecord(ctx, session, draft.ID); err != nil {
		return rt.fail(err)
	}
	rt.printf("Case record saved.\n")
	return nil
}

func showStudent(c *cli.Context) error {
	rt := newRuntime(c)
	layout, ok := view.ByName(c.String("layout"))
	if !ok {
		return cli.Exit(fmt.Sprintf("Unknown layout %q.", c.String("layout")), 2)
	}
	session, err := rt.session(c)
	if err != nil {
		return err
	}

	var doc models.Document
	if id := c.String("id"); id != "" {
		doc, err = rt.services.Records.Student(c.Context, session, id)
	} else {
		doc, err = rt.services.Records.MyRecord(c.Context, session)
	}
	if err != nil {
		return rt.fail(err)
	}

	printPage(rt, view.Render(doc, layout))
	return nil
}

// staffSession opens a session and refuses student accounts.
func (r *runtime) staffSession(c *cli.Context) (*models.Session, error) {
	session, err := r.session(c)
	if err != nil {
		return nil, err
	}
	if err := appAuth.ValidateStaff(session); err != nil {
		return nil, r.fail(err)
	}
	return session, nil
}

// openStudent starts a new draft, or one loaded from the backend when id
// is set.
func (r *runtime) openStudent(ctx context.Context, session *models.Session, id string) (*models.StudentDraft, error) {
	if id == "" {
		return r.services.Students.NewDraft(ctx, session)
	}
	return r.services.Students.OpenStudent(ctx, session, id)
}

// fillRows writes one row per flag value into table. The first value goes into the
// blank row every draft starts with.
func (r *runtime) fillRows(ctx context.Context, session *models.Session, draftID string, table services.RowTable, columns, values []string) error {
	for i, raw := range values {
		cells, err := splitRow(raw, len(columns))
		if err != nil {
			return err
		}

		draft, err := r.services.Students.Draft(ctx, session, draftID)
		if err != nil {
			return r.fail(err)
		}
		if i > 0 {
			if draft, err = r.services.Students.AddRow(ctx, session, draftID, table); err != nil {
				return r.fail(err)
			}
		}

		rowID := lastRowID(draft, table)
		for j, column := range columns {
			if cells[j] == "" {
				continue
			}
			if _, err := r.services.Students.UpdateRow(ctx, session, draftID, table, rowID, column, cells[j]); err != nil {
				return r.fail(err)
			}
		}
	}
	return nil
}

func lastRowID(draft *models.StudentDraft, table services.RowTable) string {
	switch table {
	case services.TableDrugs:
		return draft.Drugs[len(draft.Drugs)-1].ID
	default:
		return draft.Household[len(draft.Household)-1].ID
	}
}

// formFields reads --field flags and rejects names the form does not have.
func formFields(c *cli.Context, groups ...[]view.InputGroup) (map[string]string, error) {
	values, err := parseFields(c.StringSlice("field"))
	if err != nil {
		return nil, err
	}
	known := view.InputNames(groups...)
	for name := range values {
		if !slices.Contains(known, name) {
			return nil, cli.Exit(fmt.Sprintf("Unknown field %q. Known fields: %s.", name, strings.Join(known, ", ")), 2)
		}
	}
	return values, nil
}

// printPage writes a rendered layout as indented text.
func printPage(r *runtime, page view.Page) {
	r.printf("%s\n", page.Title)
	for _, section := range page.Sections {
		printSection(r, section, 1)
	}
}

func printSection(r *runtime, s view.PageSection, depth int) {
	indent := strings.Repeat("  ", depth)
	r.printf("\n%s%s\n", indent, s.Title)
	for _, p := range s.Pairs {
		r.printf("%s  %s: %s\n", indent, p.Label, p.Value)
	}
	for _, t := range s.Tables {
		r.printf("%s  %s\n", indent, t.Title)
		if len(t.Rows) == 0 {
			r.printf("%s    %s\n", indent, t.Empty)
			continue
		}
		r.printf("%s    %s\n", indent, strings.Join(t.Headers, " | "))
		for _, row := range t.Rows {
			r.printf("%s    %s\n", indent, strings.Join(row, " | "))
		}
	}
	for _, sub := range s.Subsections {
		printSection(r, sub, depth+1)
	}
}
