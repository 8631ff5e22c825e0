package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/uteq-hub/uteq-schedule-hub/internal/application"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/external/uteq"
	"github.com/uteq-hub/uteq-schedule-hub/pkg/logger"
	"github.com/uteq-hub/uteq-schedule-hub/pkg/retry"
)

// App bundles the collaborators the commands run against.
type App struct {
	Orchestrator *application.Orchestrator
	Views        *application.Views
	Sessions     session.Store
	Codec        *schedule.Codec
	Log          *logger.Logger
	Version      string
}

// NewRootCommand builds the horarios command tree. All output goes to out;
// in and out are injectable so tests can script the terminal.
func NewRootCommand(app *App, in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "horarios",
		Short: "UTEQ class schedule hub",
		Long: `Horarios keeps a local copy of the UTEQ class schedules and renders
them as day-by-hour grids and per-professor indexes. Log in once, sync,
and browse offline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app, in, out),
		newRegisterCmd(app, in, out),
		newLogoutCmd(app, out),
		newWhoamiCmd(app, out),
		newSyncCmd(app, out),
		newGroupsCmd(app, out),
		newGridCmd(app, out),
		newProfessorsCmd(app, out),
		newAdviseCmd(app, out),
		newVersionCmd(app, out),
	)
	return root
}

func newLoginCmd(app *App, in io.Reader, out io.Writer) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and sync schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(in)
			var err error
			if email, password, err = readCredentials(reader, out, email, password); err != nil {
				return err
			}

			res, err := app.Orchestrator.Login(cmd.Context(), email, password)
			if err != nil {
				return loginError(err)
			}
			reportCycle(out, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(app *App, in io.Reader, out io.Writer) *cobra.Command {
	var email, password, fullName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account, then log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(in)
			var err error
			if email, password, err = readCredentials(reader, out, email, password); err != nil {
				return err
			}
			if fullName == "" {
				if fullName, err = prompt(reader, out, "Full name: "); err != nil {
					return err
				}
			}

			res, err := app.Orchestrator.Register(cmd.Context(), email, password, fullName)
			if err != nil {
				return loginError(err)
			}
			reportCycle(out, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	cmd.Flags().StringVarP(&fullName, "name", "n", "", "full name")
	return cmd
}

func newLogoutCmd(app *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Orchestrator.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Sessions.Load(cmd.Context())
			if errors.Is(err, session.ErrNotFound) {
				fmt.Fprintln(out, "not logged in")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s <%s>\n", sess.Profile.DisplayName(), sess.Profile.Email)
			if sess.Profile.Source == session.ProfileMinimal {
				fmt.Fprintln(out, "(profile details unavailable; only the email is known)")
			}
			return nil
		},
	}
}

func newSyncCmd(app *App, out io.Writer) *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the local schedule cache from the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := retry.DefaultConfig()
			cfg.MaxAttempts = attempts
			cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
				app.Log.Warn("schedule sync retry",
					logger.Int("attempt", attempt),
					logger.Duration("delay", delay),
					logger.Err(err),
				)
			}

			var groups []schedule.Group
			err := retry.Do(cmd.Context(), cfg, func(ctx context.Context) error {
				var syncErr error
				groups, syncErr = app.Orchestrator.SyncSchedules(ctx)
				if errors.Is(syncErr, uteq.ErrAuthExpired) || uteq.IsCredential(syncErr) {
					// Retrying cannot fix a rejected or expired session.
					return retry.Permanent(syncErr)
				}
				return syncErr
			})
			if err != nil {
				return loginError(err)
			}
			fmt.Fprintf(out, "synced %d groups\n", len(groups))
			return nil
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", 3, "max attempts for transient backend failures")
	return cmd
}

func newGroupsCmd(app *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the cached schedule groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := app.Views.Groups(cmd.Context())
			if err != nil {
				return err
			}
			NewPresenter(out).GroupList(groups)
			return nil
		},
	}
}

func newGridCmd(app *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "grid <group>",
		Short: "Render one group's day-by-hour timetable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, group, err := app.Views.GroupGrid(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			NewPresenter(out).Grid(group, grid)
			return nil
		},
	}
}

func newProfessorsCmd(app *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "professors",
		Short: "List every professor and their sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := app.Views.Professors(cmd.Context())
			if err != nil {
				return err
			}
			NewPresenter(out).Professors(idx)
			return nil
		},
	}
}

func newAdviseCmd(app *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "advise <professor> <day> <hour>",
		Short: "Request an advisory slot with a professor",
		Long: `Checks the requested slot against the timetable and confirms the
advisory request. Requests are confirmed locally; the backend does not
take reservations yet.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			professor, day := args[0], args[1]
			hour, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("hour %q is not a number", args[2])
			}
			if !app.Codec.ValidDay(day) {
				return fmt.Errorf("unknown day %q (valid: %s)", day, strings.Join(app.Codec.Days(), ", "))
			}
			if !app.Codec.ValidHour(hour) {
				return fmt.Errorf("hour %d is outside class hours", hour)
			}

			idx, err := app.Views.Professors(cmd.Context())
			if err != nil {
				return err
			}
			token := schedule.Slot{Day: day, Hour: hour}.Token()
			for _, e := range idx.Entries(professor) {
				if e.Session.SlotToken == token {
					return fmt.Errorf("%s teaches %s at %s; pick a free slot", professor, e.Session.Subject, token)
				}
			}

			fmt.Fprintf(out, "advisory requested with %s at %s\n", professor, token)
			return nil
		},
	}
}

func newVersionCmd(app *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "horarios %s\n", app.Version)
		},
	}
}

func reportCycle(out io.Writer, res application.Result) {
	fmt.Fprintf(out, "welcome, %s\n", res.Session.Profile.DisplayName())
	if res.SyncErr != nil {
		fmt.Fprintf(out, "schedule sync failed (%v); run `horarios sync` to retry\n", res.SyncErr)
		return
	}
	fmt.Fprintf(out, "synced %d groups\n", res.Groups)
}

// loginError rewrites the client's error taxonomy into terminal wording.
func loginError(err error) error {
	switch {
	case errors.Is(err, uteq.ErrAuthExpired):
		return errors.New("session expired; run `horarios login` again")
	case uteq.IsCredential(err):
		return fmt.Errorf("rejected by the backend: %w", err)
	case uteq.IsTransport(err):
		return fmt.Errorf("backend unreachable: %w", err)
	default:
		return err
	}
}

// readCredentials fills in whichever of email/password the flags left empty.
// Consecutive prompts share one buffered reader so piped input is not lost
// between reads.
func readCredentials(in *bufio.Reader, out io.Writer, email, password string) (string, string, error) {
	var err error
	if email == "" {
		if email, err = prompt(in, out, "Email: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = prompt(in, out, "Password: "); err != nil {
			return "", "", err
		}
	}
	if email == "" || password == "" {
		return "", "", errors.New("email and password are required")
	}
	return email, password, nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
