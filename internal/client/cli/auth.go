package cli

import (
	"context"

	"contentproof/internal/client/api"
	"contentproof/internal/client/nav"
)

// SignIn opens the sign-in view and submits the entered credentials.
func (a *App) SignIn(ctx context.Context) error {
	if err := a.navigate(nav.Event{Kind: nav.GoSignIn}); err != nil {
		return err
	}
	if a.state.View == nav.Dashboard {
		return nil
	}

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	res, err := a.api.Signin(ctx, email, password)
	if err != nil {
		a.report(err)
		return err
	}
	return a.startSession(res)
}

// SignUp opens the sign-up view and creates an account.
func (a *App) SignUp(ctx context.Context) error {
	if err := a.navigate(nav.Event{Kind: nav.GoSignUp}); err != nil {
		return err
	}
	if a.state.View == nav.Dashboard {
		return nil
	}

	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	res, err := a.api.Signup(ctx, name, email, password)
	if err != nil {
		a.report(err)
		return err
	}
	return a.startSession(res)
}

// SignOut forgets the session locally. Tokens are stateless, so nothing is sent.
func (a *App) SignOut() error {
	return a.navigate(nav.Event{Kind: nav.SignedOut})
}

func (a *App) startSession(res *api.AuthResponse) error {
	s, err := api.SessionFrom(res)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	a.println(res.Message)
	a.api.SetToken(s.Token)
	return a.navigate(nav.Event{Kind: nav.SignedIn, Session: s})
}

func (a *App) password() (string, error) {
	pw, err := GetPassword(a.reader, a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
