package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolportal/internal/app/view"
)

func teacherCommand() *cli.Command {
	return &cli.Command{
		Name:  "teacher",
		Usage: "create teachers",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a teacher with class assignments",
				Flags: []cli.Flag{
					fieldFlag(),
					&cli.StringSliceFlag{
						Name:  "assignment",
						Usage: "class assignment as class|subject|Monday,Wednesday|start|end, repeatable",
					},
				},
				Action: createTeacher,
			},
		},
	}
}

func createTeacher(c *cli.Context) error {
	rt := newRuntime(c)
	ctx := c.Context
	teachers := rt.services.Teachers

	values, err := formFields(c, view.TeacherForm)
	if err != nil {
		return err
	}
	session, err := rt.staffSession(c)
	if err != nil {
		return err
	}

	draft, err := teachers.NewDraft(ctx, session)
	if err != nil {
		return rt.fail(err)
	}
	if _, err := teachers.UpdateFields(ctx, session, draft.ID, values); err != nil {
		return rt.fail(err)
	}

	for i, raw := range c.StringSlice("assignment") {
		cells, err := splitRow(raw, 5)
		if err != nil {
			return err
		}
		if i > 0 {
			if draft, err = teachers.AddAssignment(ctx, session, draft.ID); err != nil {
				return rt.fail(err)
			}
		}
		rowID := draft.Assignments[len(draft.Assignments)-1].ID

		for field, value := range map[string]string{"class": cells[0], "subject": cells[1], "startTime": cells[3], "endTime": cells[4]} {
			if value == "" {
				continue
			}
			if _, err := teachers.UpdateAssignment(ctx, session, draft.ID, rowID, field, value); err != nil {
				return rt.fail(err)
			}
		}
		if _, err := teachers.SetDays(ctx, session, draft.ID, rowID, splitDays(cells[2])); err != nil {
			return rt.fail(err)
		}
	}

	result, err := teachers.Save(ctx, session, draft.ID)
	if err != nil {
		return rt.fail(err)
	}
	for _, d := range result.Dropped {
		fmt.Fprintln(c.App.ErrWriter, d.Warning())
	}
	id, _ := result.Draft.Teacher.ID()
	rt.printf("Teacher saved. ID: %s\n", id)
	return nil
}

func splitDays(raw string) []string {
	var days []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	return days
}
