// Package cli implements portalctl, a command line client that drives the
// portal services against the school backend without a browser.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/bootstrap"
	"github.com/yigit/schoolportal/internal/client"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/auth"
	"github.com/yigit/schoolportal/internal/pkg/logger"
)

const (
	flagBackend  = "backend"
	flagTimeout  = "timeout"
	flagToken    = "token"
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

// sessionTTL bounds the throwaway session a login command opens.
const sessionTTL = time.Hour

// NewApp builds the portalctl command tree. Output goes to the app's
// Writer, diagnostics to its ErrWriter.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "portalctl",
		Usage: "work with the school backend from the command line",
		// Field values and weekday lists contain commas.
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagBackend,
				Usage:   "base URL of the school backend",
				Value:   "http://localhost:8000",
				EnvVars: []string{"BACKEND_BASE_URL"},
			},
			&cli.DurationFlag{
				Name:    flagTimeout,
				Usage:   "timeout of one backend request",
				Value:   15 * time.Second,
				EnvVars: []string{"BACKEND_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    flagToken,
				Usage:   "backend bearer token printed by `portalctl login`",
				EnvVars: []string{"PORTAL_TOKEN"},
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Usage:   "portal configuration file, used by migrate and sessions",
				Value:   bootstrap.DefaultConfigPath,
				EnvVars: []string{"PORTAL_CONFIG"},
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Configure(logger.Config{
				Level:  logger.LogLevel(c.String(flagLogLevel)),
				Pretty: true,
				Output: c.App.ErrWriter,
			})
			return nil
		},
		// Errors are returned from app.Run and printed by Run.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			loginCommand(),
			studentCommand(),
			teacherCommand(),
			notificationsCommand(),
			migrateCommand(),
			sessionsCommand(),
		},
	}
}

// Run executes portalctl with args and exits on failure.
func Run(args []string) {
	app := NewApp()
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	if err := app.Run(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			code = exit.ExitCode()
		}
		os.Exit(code)
	}
}

// runtime is the per-invocation service graph. Editing state lives in an
// in-memory session store that is dropped when the command ends.
type runtime struct {
	out      io.Writer
	logger   zerolog.Logger
	store    *repositories.MemorySessionStore
	services *services.Services
}

func newRuntime(c *cli.Context) *runtime {
	lgr := logger.Component("portalctl")
	store := repositories.NewMemorySessionStore()
	backend := client.New(strings.TrimRight(c.String(flagBackend), "/"), nil, c.Duration(flagTimeout), lgr)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   uuid.NewString(),
		TokenIssuer: "portalctl",
	})
	return &runtime{
		out:      c.App.Writer,
		logger:   lgr,
		store:    store,
		services: services.NewServices(store, backend, jwtService, sessionTTL, lgr),
	}
}

// session opens a session around the --token bearer token.
func (r *runtime) session(c *cli.Context) (*models.Session, error) {
	token := c.String(flagToken)
	if token == "" {
		return nil, cli.Exit("No backend token. Run `portalctl login` and pass --token or set PORTAL_TOKEN.", 2)
	}

	claims, err := auth.InspectUpstreamToken(token)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Could not read backend token claims")
		claims = &auth.UpstreamClaims{}
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     token,
		Username:  claims.Subject,
		Role:      claims.Role,
		CreatedAt: time.Now(),
	}
	if err := r.store.Create(c.Context, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *runtime) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

// fail turns err into the message a user sees and a non-zero exit.
func (r *runtime) fail(err error) error {
	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		return err
	}
	r.logger.Debug().Err(err).Msg("Command failed")
	msg := apperrors.UserMessage(err)
	if msg == apperrors.MsgUnexpected {
		msg = fmt.Sprintf("%s (%v)", msg, err)
	}
	return cli.Exit(msg, 1)
}

// parseFields reads repeated name=value flags.
func parseFields(raw []string) (map[string]string, error) {
	values := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, cli.Exit(fmt.Sprintf("Expected name=value, got %q.", kv), 2)
		}
		values[name] = value
	}
	return values, nil
}

// splitRow splits a pipe separated row into exactly n cells. Missing
// trailing cells are blank.
func splitRow(raw string, n int) ([]string, error) {
	cells := strings.Split(raw, "|")
	if len(cells) > n {
		return nil, cli.Exit(fmt.Sprintf("Expected at most %d |-separated values, got %q.", n, raw), 2)
	}
	for len(cells) < n {
		cells = append(cells, "")
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells, nil
}
