package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolportal/internal/app/models"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and print the backend token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, EnvVars: []string{"PORTAL_USERNAME"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"PORTAL_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			rt := newRuntime(c)
			form := models.FormState{
				"username": c.String("username"),
				"password": c.String("password"),
			}

			result, err := rt.services.Auth.Login(c.Context, form)
			if err != nil {
				return rt.fail(err)
			}

			session := result.Session
			role := session.Role
			if role == "" {
				role = "unknown role"
			}
			fmt.Fprintf(c.App.ErrWriter, "Signed in as %s (%s).\n", session.Username, role)
			rt.printf("%s\n", session.Token)
			return nil
		},
	}
}
