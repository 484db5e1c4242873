// Package cli is the interactive terminal front end. It renders the current
// view, reads commands and drives the service through the api package.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"contentproof/internal/chain"
	"contentproof/internal/client/api"
	"contentproof/internal/client/nav"
	"contentproof/internal/verify"
)

// API is the subset of *api.Client the app uses.
type API interface {
	SetToken(token string)
	Signup(ctx context.Context, name, email, password string) (*api.AuthResponse, error)
	Signin(ctx context.Context, email, password string) (*api.AuthResponse, error)
	VerifyText(ctx context.Context, text string) (*verify.Outcome, error)
	VerifyFile(ctx context.Context, filename string, data []byte) (*verify.Outcome, error)
	VerifyHash(ctx context.Context, hash string) (*verify.Outcome, error)
	Status(ctx context.Context) (*verify.Snapshot, error)
	History(ctx context.Context, account string) (*verify.HistoryView, error)
	Records(ctx context.Context, limit, offset int) (*api.Records, error)
	ChainStatus(ctx context.Context) (*chain.Status, error)
	Me(ctx context.Context) (map[string]any, error)
}

// App holds the client state. All view changes go through nav.Transition.
type App struct {
	api    API
	state  nav.State
	reader *bufio.Reader
	out    io.Writer

	now      func() time.Time
	readFile func(string) ([]byte, error)
}

func NewApp(client API, in io.Reader, out io.Writer) *App {
	return &App{
		api:      client,
		state:    nav.Initial(),
		reader:   bufio.NewReader(in),
		out:      out,
		now:      time.Now,
		readFile: os.ReadFile,
	}
}

// State returns a copy of the current application state.
func (a *App) State() nav.State { return a.state }

// Run renders the landing view and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	a.render()
	runREPL(ctx, a)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// navigate applies e and renders the new view when it changed.
func (a *App) navigate(e nav.Event) error {
	prev := a.state.View
	next, err := nav.Transition(a.state, e, a.now())
	a.state = next
	if next.Session == nil {
		a.api.SetToken("")
	}
	if next.View != prev || next.Notice != "" {
		a.render()
	}
	return err
}

func (a *App) render() {
	switch a.state.View {
	case nav.Dashboard:
		a.println("== Dashboard ==")
		if s := a.state.Session; s != nil {
			a.printf("Signed in as %s <%s>\n", s.Name, s.Email)
		}
		a.println("Verify text, a file or a precomputed hash against the registry.")
	case nav.SignIn:
		a.println("== Sign in ==")
	case nav.SignUp:
		a.println("== Create account ==")
	default:
		a.println("== Content Proof ==")
		a.println("Prove that a piece of content existed, and who registered it.")
	}
	if a.state.Notice != "" {
		a.println(a.state.Notice)
	}
	a.printf("Commands: %s\n", strings.Join(nav.Commands(a.state.View), ", "))
}

// requireDashboard moves to the dashboard, or explains why it cannot.
func (a *App) requireDashboard() bool {
	if a.state.View == nav.Dashboard && a.state.Session.Valid(a.now()) {
		return true
	}
	return a.navigate(nav.Event{Kind: nav.GoDashboard}) == nil
}

// report prints err and drops the session when the service rejected the token.
func (a *App) report(err error) {
	if api.IsUnauthorized(err) && a.state.Session != nil {
		_ = a.navigate(nav.Event{Kind: nav.SessionExpired})
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Outcome != nil {
		a.printOutcome(apiErr.Outcome)
	}
	a.println("Error:", err)
}
