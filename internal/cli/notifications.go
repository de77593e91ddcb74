package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/view"
)

const timeLayout = "02 Jan 2006, 15:04"

func notificationsCommand() *cli.Command {
	return &cli.Command{
		Name:    "notifications",
		Aliases: []string{"n"},
		Usage:   "read and send report notifications",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list your notifications",
				Action: listNotifications,
			},
			{
				Name:      "read",
				Usage:     "show one notification and mark it as read",
				ArgsUsage: "<id>",
				Action:    readNotification,
			},
			{
				Name:   "read-all",
				Usage:  "mark every notification as read",
				Action: readAllNotifications,
			},
			{
				Name:   "count",
				Usage:  "print the number of unread notifications",
				Action: countNotifications,
			},
			{
				Name:   "send",
				Usage:  "send a report to a student",
				Flags:  []cli.Flag{fieldFlag()},
				Action: sendReport,
			},
		},
	}
}

func listNotifications(c *cli.Context) error {
	rt := newRuntime(c)
	session, err := rt.session(c)
	if err != nil {
		return err
	}

	feed, err := rt.services.Notifications.Load(c.Context, session)
	if err != nil {
		return rt.fail(err)
	}
	if len(feed.Items) == 0 {
		rt.printf("No notifications.\n")
		return nil
	}

	w := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tRECEIVED\tFROM\tTITLE")
	for _, n := range feed.Items {
		status := "unread"
		if n.IsRead {
			status = "read"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", n.ID, status, received(n), sender(n), n.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	rt.printf("%d unread\n", feed.Unread())
	return nil
}

func readNotification(c *cli.Context) error {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return cli.Exit("Usage: portalctl notifications read <id>", 2)
	}

	rt := newRuntime(c)
	session, err := rt.session(c)
	if err != nil {
		return err
	}

	feed, err := rt.services.Notifications.Toggle(c.Context, session, id)
	if err != nil {
		return rt.fail(err)
	}
	n := feed.Items[feed.Find(id)]

	rt.printf("%s\n%s, from %s\n\n%s\n", n.Title, received(n), sender(n), n.Message)
	if n.IsTherapyReport() {
		rt.printf("\nTherapy: %s\nPeriod: %s to %s\nSummary: %s\n",
			optional(n.TherapyType), optional(n.ReportFromDate), optional(n.ReportToDate), optional(n.ReportSummary))
	}
	if !n.IsRead {
		rt.printf("\n(could not mark as read)\n")
	}
	return nil
}

func readAllNotifications(c *cli.Context) error {
	rt := newRuntime(c)
	session, err := rt.session(c)
	if err != nil {
		return err
	}
	feed, err := rt.services.Notifications.MarkAllRead(c.Context, session)
	if err != nil {
		return rt.fail(err)
	}
	rt.printf("Marked %d notifications as read.\n", len(feed.Items))
	return nil
}

func countNotifications(c *cli.Context) error {
	rt := newRuntime(c)
	session, err := rt.session(c)
	if err != nil {
		return err
	}
	count, err := rt.services.Notifications.UnreadCount(c.Context, session)
	if err != nil {
		return rt.fail(err)
	}
	rt.printf("%d\n", count)
	return nil
}

func sendReport(c *cli.Context) error {
	rt := newRuntime(c)
	values, err := formFields(c, view.ReportForm)
	if err != nil {
		return err
	}
	session, err := rt.session(c)
	if err != nil {
		return err
	}

	sent, err := rt.services.Notifications.SendReport(c.Context, session, models.FormState{}.Merge(values))
	if err != nil {
		return rt.fail(err)
	}
	rt.printf("Report sent. ID: %d\n", sent.ID)
	return nil
}

func received(n models.Notification) string {
	if n.CreatedAt.IsZero() {
		return view.Placeholder
	}
	return n.CreatedAt.Format(timeLayout)
}

func sender(n models.Notification) string {
	name := optional(n.SentByName)
	if n.SentByRole != nil && *n.SentByRole != "" {
		name += " (" + *n.SentByRole + ")"
	}
	return name
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return view.Placeholder
	}
	return *s
}
