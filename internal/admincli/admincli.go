// Package admincli implements the adminctl credential-management tool.
//
// It operates DIRECTLY on the SQLite database file, independent of the web
// server — the server never needs to be running (or even installed) to manage
// accounts. Usage:
//
//	adminctl -show
//	adminctl -u admin -p secret          # create
//	adminctl -u admin -update -p newpw   # change password
//	adminctl -u admin -delete            # remove
//
// When -p is omitted for create/update, the password is prompted for on the
// terminal without echo.
//
// The logic lives here (not in cmd/adminctl/main.go) so it can be tested:
// Run takes its arguments, streams, and password reader as parameters instead
// of touching os.Args or the terminal directly.
package admincli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/sakif/pinboard/internal/apperror"
	"github.com/sakif/pinboard/internal/auth"
	"github.com/sakif/pinboard/internal/model"
	"github.com/sakif/pinboard/internal/repository"
	"github.com/sakif/pinboard/internal/repository/sqlite"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace the App's copy with a stub to avoid the terminal.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// App bundles the CLI's dependencies so tests can inject fakes.
type App struct {
	Users     repository.UserRepository
	Passwords *auth.PasswordService
	Out       io.Writer

	// PromptPassword is called when -p is omitted for create/update.
	// Defaults to a no-echo terminal read.
	PromptPassword func() (string, error)
}

// NewApp creates an App over the given user repository, writing its
// human-readable status lines to out.
func NewApp(users repository.UserRepository, out io.Writer) *App {
	return &App{
		Users:     users,
		Passwords: auth.NewPasswordService(),
		Out:       out,
		PromptPassword: func() (string, error) {
			fmt.Fprint(os.Stderr, "Password: ")
			pw, err := readPassword()
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return "", err
			}
			return string(pw), nil
		},
	}
}

// Main is the real entry point called by cmd/adminctl. It opens the database
// (refusing to create one — see below), runs one action, and returns the
// process exit code.
func Main(args []string, dbPath string, out, errOut io.Writer) int {
	// The CLI must not silently create an empty database at a mistyped path.
	// First-run initialisation belongs to the server, which knows the schema.
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Fprintf(errOut, "Database not found at %s. Start the server once to initialise it.\n", dbPath)
		return 1
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintf(errOut, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	app := NewApp(db.Users(), out)
	if err := app.Run(context.Background(), args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

// Run parses args and performs exactly one action, then returns.
//
// All operations are single-shot and synchronous. Operator-facing conditions
// (user exists, user missing) are printed as status lines and are NOT errors —
// they exit zero, matching the tool's long-standing behaviour. Only parse and
// storage failures return a non-nil error.
func (a *App) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	fs.SetOutput(a.Out)

	var (
		username string
		password string
		update   bool
		remove   bool
		show     bool
	)
	fs.StringVar(&username, "username", "", "Username to create/update/delete")
	fs.StringVar(&username, "u", "", "shorthand for -username")
	fs.StringVar(&password, "password", "", "Password (if omitted you'll be prompted)")
	fs.StringVar(&password, "p", "", "shorthand for -password")
	fs.BoolVar(&update, "update", false, "Update password if user exists")
	fs.BoolVar(&remove, "delete", false, "Delete the specified user")
	fs.BoolVar(&show, "show", false, "Show existing users")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if show {
		return a.showUsers(ctx)
	}

	if username == "" {
		fmt.Fprintln(a.Out, "Please provide -username or use -show")
		return nil
	}

	if remove {
		return a.deleteUser(ctx, username)
	}

	if password == "" {
		pw, err := a.PromptPassword()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = pw
	}

	if update {
		return a.updatePassword(ctx, username, password)
	}
	return a.createUser(ctx, username, password)
}

// showUsers lists all (id, username) pairs. Hashes are never printed.
func (a *App) showUsers(ctx context.Context) error {
	users, err := a.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(a.Out, "No users found")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(a.Out, "%d:\t%s\n", u.ID, u.Username)
	}
	return nil
}

// createUser inserts a new account, refusing to touch an existing one.
func (a *App) createUser(ctx context.Context, username, password string) error {
	user := &model.User{
		Username:     username,
		PasswordHash: a.Passwords.Hash(password),
	}
	err := a.Users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			fmt.Fprintf(a.Out, "User '%s' already exists. Use -update to change the password or -delete to remove the user.\n", username)
			return nil
		}
		return fmt.Errorf("creating user: %w", err)
	}

	fmt.Fprintf(a.Out, "Created user '%s'\n", username)
	return nil
}

// updatePassword rehashes and stores a new password for an existing account.
func (a *App) updatePassword(ctx context.Context, username, password string) error {
	err := a.Users.UpdatePassword(ctx, username, a.Passwords.Hash(password))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			fmt.Fprintln(a.Out, "User not found")
			return nil
		}
		return fmt.Errorf("updating user: %w", err)
	}

	fmt.Fprintf(a.Out, "Updated password for '%s'\n", username)
	return nil
}

// deleteUser removes an account if present.
func (a *App) deleteUser(ctx context.Context, username string) error {
	err := a.Users.Delete(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			fmt.Fprintln(a.Out, "User not found")
			return nil
		}
		return fmt.Errorf("deleting user: %w", err)
	}

	fmt.Fprintf(a.Out, "Deleted user '%s'\n", username)
	return nil
}
