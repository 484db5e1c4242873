package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"contentproof/internal/client/nav"
)

const defaultRecordLimit = 10

// runREPL reads one command per line and dispatches it. It returns on EOF or
// when the user types exit or quit. Command errors are reported by the
// handlers themselves, so the loop ignores them.
func runREPL(ctx context.Context, a *App) {
	for {
		a.printf("cp[%s]> ", a.state.View)
		line, err := readLine(a.reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				a.println("Error:", err)
			}
			return
		}
		if quit := a.dispatch(ctx, line); quit {
			a.println("Bye!")
			return
		}
	}
}

func (a *App) dispatch(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch cmd {
	case "":
	case "help":
		a.render()
	case "signin":
		_ = a.SignIn(ctx)
	case "signup":
		_ = a.SignUp(ctx)
	case "back", "home":
		_ = a.navigate(nav.Event{Kind: nav.GoLanding})
	case "dashboard":
		_ = a.navigate(nav.Event{Kind: nav.GoDashboard})
	case "text":
		_ = a.VerifyText(ctx, rest)
	case "file":
		_ = a.VerifyFile(ctx, rest)
	case "hash":
		_ = a.VerifyHash(ctx, rest)
	case "status":
		_ = a.Status(ctx)
	case "history":
		account := ""
		if len(args) > 0 {
			account = args[0]
		}
		_ = a.History(ctx, account)
	case "records":
		limit, offset := defaultRecordLimit, 0
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				limit = n
			}
		}
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil {
				offset = n
			}
		}
		_ = a.Records(ctx, limit, offset)
	case "chain":
		_ = a.Chain(ctx)
	case "me":
		_ = a.Me(ctx)
	case "signout", "logout":
		_ = a.SignOut()
	case "exit", "quit":
		return true
	default:
		a.println("Unknown command:", cmd)
	}
	return false
}
