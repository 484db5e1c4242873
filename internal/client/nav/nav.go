// Package nav holds the terminal client's application state: the current view,
// the signed-in session and the transitions between views.
package nav

import (
	"errors"
	"fmt"
	"time"
)

// View is one of the client's screens.
type View string

const (
	Landing   View = "landing"
	SignIn    View = "signin"
	SignUp    View = "signup"
	Dashboard View = "dashboard"
)

// ErrSessionRequired is returned when a transition needs a valid session.
var ErrSessionRequired = errors.New("sign in to open the dashboard")

// Session is the signed-in user and their bearer token.
type Session struct {
	UserID    string
	Name      string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether s carries a token that has not expired at now.
// A zero ExpiresAt is treated as non-expiring.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// State is the whole client state. Transition is the only way to change it.
type State struct {
	View    View
	Session *Session
	// Notice is a one-shot message for the next render.
	Notice string
}

// Initial is the state the client starts in.
func Initial() State {
	return State{View: Landing}
}

// EventKind names a navigation event.
type EventKind int

const (
	GoLanding EventKind = iota
	GoSignIn
	GoSignUp
	GoDashboard
	SignedIn
	SignedOut
	SessionExpired
)

func (k EventKind) String() string {
	switch k {
	case GoLanding:
		return "go_landing"
	case GoSignIn:
		return "go_signin"
	case GoSignUp:
		return "go_signup"
	case GoDashboard:
		return "go_dashboard"
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	case SessionExpired:
		return "session_expired"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event drives a transition. Session is set only for SignedIn.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Transition returns the state after e at time now. It never mutates s.
// The dashboard is reachable only with a valid session; an expired session is
// dropped on any transition.
func Transition(s State, e Event, now time.Time) (State, error) {
	next := State{View: s.View, Session: s.Session}
	if !next.Session.Valid(now) {
		next.Session = nil
	}

	switch e.Kind {
	case GoLanding:
		next.View = Landing

	case GoSignIn, GoSignUp:
		if next.Session != nil {
			next.View = Dashboard
			return next, nil
		}
		next.View = SignIn
		if e.Kind == GoSignUp {
			next.View = SignUp
		}

	case GoDashboard:
		if next.Session == nil {
			next.View = SignIn
			next.Notice = ErrSessionRequired.Error()
			return next, ErrSessionRequired
		}
		next.View = Dashboard

	case SignedIn:
		if !e.Session.Valid(now) {
			return s, ErrSessionRequired
		}
		next.Session = e.Session
		next.View = Dashboard

	case SignedOut:
		next.Session = nil
		next.View = Landing
		next.Notice = "Signed out"

	case SessionExpired:
		next.Session = nil
		next.View = SignIn
		next.Notice = "Session expired, sign in again"

	default:
		return s, fmt.Errorf("unknown event %s", e.Kind)
	}

	if next.View == Dashboard && next.Session == nil {
		next.View = SignIn
		next.Notice = ErrSessionRequired.Error()
	}
	return next, nil
}

// Commands lists what the user can type in view v.
func Commands(v View) []string {
	switch v {
	case Dashboard:
		return []string{"text", "file", "hash", "status", "history", "records", "chain", "me", "signout", "exit"}
	case SignIn:
		return []string{"signin", "signup", "back", "exit"}
	case SignUp:
		return []string{"signup", "signin", "back", "exit"}
	default:
		return []string{"signin", "signup", "exit"}
	}
}
