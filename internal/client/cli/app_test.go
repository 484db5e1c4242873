package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentproof/internal/chain"
	"contentproof/internal/client/api"
	"contentproof/internal/client/nav"
	"contentproof/internal/verify"
)

type fakeAPI struct {
	token string
	calls []string

	signinErr error
	verifyErr error
	texts     []string
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}).
		SignedString([]byte("test"))
	require.NoError(t, err)
	return tok
}

func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) Signup(_ context.Context, name, email, _ string) (*api.AuthResponse, error) {
	f.calls = append(f.calls, "signup:"+email)
	return &api.AuthResponse{ID: "u1", Name: name, Email: email, Token: tokenFor, Message: "Account created successfully"}, nil
}

func (f *fakeAPI) Signin(_ context.Context, email, _ string) (*api.AuthResponse, error) {
	f.calls = append(f.calls, "signin:"+email)
	if f.signinErr != nil {
		return nil, f.signinErr
	}
	return &api.AuthResponse{ID: "u1", Name: "Ada", Email: email, Token: tokenFor, Message: "Sign in successful"}, nil
}

func (f *fakeAPI) VerifyText(_ context.Context, text string) (*verify.Outcome, error) {
	f.calls = append(f.calls, "text")
	f.texts = append(f.texts, text)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &verify.Outcome{
		Mode:   verify.ModeText,
		Phase:  verify.PhaseSuccess,
		Phases: []verify.Phase{verify.PhaseHashing, verify.PhaseCheckingExisting, verify.PhaseSubmitting, verify.PhaseAwaitingReceipt, verify.PhaseSuccess},
		Digest: "0xdigest",
		TxHash: "0xfeed",
	}, nil
}

func (f *fakeAPI) VerifyFile(_ context.Context, filename string, data []byte) (*verify.Outcome, error) {
	f.calls = append(f.calls, "file:"+filename+":"+string(data))
	return &verify.Outcome{Mode: verify.ModeFile, Phase: verify.PhaseSuccess, Marker: verify.MarkerAlreadyVerified}, nil
}

func (f *fakeAPI) VerifyHash(_ context.Context, hash string) (*verify.Outcome, error) {
	f.calls = append(f.calls, "hash:"+hash)
	return &verify.Outcome{Mode: verify.ModeHash, Phase: verify.PhaseSuccess}, nil
}

func (f *fakeAPI) Status(context.Context) (*verify.Snapshot, error) {
	f.calls = append(f.calls, "status")
	return &verify.Snapshot{Phase: verify.PhaseIdle, CanSubmit: true}, nil
}

func (f *fakeAPI) History(_ context.Context, account string) (*verify.HistoryView, error) {
	f.calls = append(f.calls, "history:"+account)
	return &verify.HistoryView{Phase: verify.HistoryLoaded, Account: "0xabc", Entries: []chain.HistoryEntry{{CID: "bafy"}}}, nil
}

func (f *fakeAPI) Records(_ context.Context, limit, offset int) (*api.Records, error) {
	f.calls = append(f.calls, "records")
	return &api.Records{Total: 0, Limit: limit, Offset: offset}, nil
}

func (f *fakeAPI) ChainStatus(context.Context) (*chain.Status, error) {
	f.calls = append(f.calls, "chain")
	return &chain.Status{Message: "wallet unavailable"}, nil
}

func (f *fakeAPI) Me(context.Context) (map[string]any, error) {
	f.calls = append(f.calls, "me")
	return map[string]any{"name": "Ada"}, nil
}

var tokenFor string

func newTestApp(t *testing.T, input string) (*App, *fakeAPI, *bytes.Buffer) {
	t.Helper()
	tokenFor = signedToken(t, time.Now().Add(time.Hour))

	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	fake := &fakeAPI{}
	var out bytes.Buffer
	a := NewApp(fake, strings.NewReader(input), &out)
	a.readFile = func(path string) ([]byte, error) {
		if path == "/tmp/empty" {
			return nil, nil
		}
		return []byte("data"), nil
	}
	return a, fake, &out
}

func TestSignInFlow(t *testing.T) {
	a, fake, out := newTestApp(t, "signin\nada@example.com\npw\nexit\n")

	a.Run(context.Background())

	assert.Equal(t, []string{"signin:ada@example.com"}, fake.calls)
	assert.Equal(t, nav.Dashboard, a.State().View)
	assert.Equal(t, tokenFor, fake.token)
	assert.Contains(t, out.String(), "Sign in successful")
	assert.Contains(t, out.String(), "== Dashboard ==")
	assert.Contains(t, out.String(), "Bye!")
}

func TestSignInFailureStaysOnSignIn(t *testing.T) {
	a, fake, out := newTestApp(t, "signin\nada@example.com\nbad\n")
	fake.signinErr = &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"}

	a.Run(context.Background())

	assert.Equal(t, nav.SignIn, a.State().View)
	assert.Nil(t, a.State().Session)
	assert.Empty(t, fake.token)
	assert.Contains(t, out.String(), "Invalid email or password")
}

func TestSignUpFlow(t *testing.T) {
	a, fake, _ := newTestApp(t, "signup\nAda\nada@example.com\npw\n")

	a.Run(context.Background())

	assert.Equal(t, []string{"signup:ada@example.com"}, fake.calls)
	assert.Equal(t, nav.Dashboard, a.State().View)
	require.NotNil(t, a.State().Session)
	assert.Equal(t, "Ada", a.State().Session.Name)
}

func TestDashboardCommandsRequireSession(t *testing.T) {
	a, fake, out := newTestApp(t, "text hello\nstatus\nhash 0x01\n")

	a.Run(context.Background())

	assert.Empty(t, fake.calls)
	assert.Equal(t, nav.SignIn, a.State().View)
	assert.Contains(t, out.String(), nav.ErrSessionRequired.Error())
}

func TestDashboardCommands(t *testing.T) {
	input := strings.Join([]string{
		"signin", "ada@example.com", "pw",
		"text hello world",
		"file /tmp/doc.txt",
		"hash 0xabc",
		"status",
		"history 0xabc",
		"records 5 10",
		"chain",
		"me",
		"bogus",
		"signout",
	}, "\n")
	a, fake, out := newTestApp(t, input)

	a.Run(context.Background())

	assert.Equal(t, []string{
		"signin:ada@example.com",
		"text",
		"file:doc.txt:data",
		"hash:0xabc",
		"status",
		"history:0xabc",
		"records",
		"chain",
		"me",
	}, fake.calls)
	assert.Equal(t, []string{"hello world"}, fake.texts)
	assert.Equal(t, nav.Landing, a.State().View)
	assert.Empty(t, fake.token)

	s := out.String()
	assert.Contains(t, s, "hashing -> checking_existing -> submitting -> awaiting_receipt -> success")
	assert.Contains(t, s, "tx:      0xfeed")
	assert.Contains(t, s, "tx:      already verified")
	assert.Contains(t, s, "Chain: not connected: wallet unavailable")
	assert.Contains(t, s, "Unknown command: bogus")
	assert.Contains(t, s, "Signed out")
}

func TestEmptyInputIsNotSent(t *testing.T) {
	a, fake, out := newTestApp(t, "signin\nada@example.com\npw\ntext\n\nfile /tmp/empty\nhash\n")

	a.Run(context.Background())

	assert.Equal(t, []string{"signin:ada@example.com"}, fake.calls)
	assert.Equal(t, 3, strings.Count(out.String(), "Error: nothing to verify"))
}

func TestUnauthorizedDropsSession(t *testing.T) {
	a, fake, out := newTestApp(t, "signin\nada@example.com\npw\ntext hello\n")
	fake.verifyErr = &api.Error{Status: http.StatusUnauthorized, Message: "Not authorized, token failed"}

	a.Run(context.Background())

	assert.Equal(t, nav.SignIn, a.State().View)
	assert.Nil(t, a.State().Session)
	assert.Empty(t, fake.token)
	assert.Contains(t, out.String(), "Session expired")
}

func TestFailedAttemptShowsPhases(t *testing.T) {
	a, fake, out := newTestApp(t, "signin\nada@example.com\npw\ntext hello\n")
	fake.verifyErr = &api.Error{
		Status:  http.StatusBadGateway,
		Message: "pinning: pinata upload failed (status 401): bad jwt",
		Outcome: &verify.Outcome{Phase: verify.PhaseFailed, Phases: []verify.Phase{verify.PhaseHashing, verify.PhasePinning, verify.PhaseFailed}},
	}

	a.Run(context.Background())

	assert.Equal(t, nav.Dashboard, a.State().View)
	assert.Contains(t, out.String(), "hashing -> pinning -> failed")
	assert.Contains(t, out.String(), "pinata upload failed")
}

func TestGetPasswordTerminal(t *testing.T) {
	origTerm, origRead := isTerminal, readPassword
	isTerminal = func() bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { isTerminal, readPassword = origTerm, origRead })

	var out bytes.Buffer
	pw, err := GetPassword(nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(pw))
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a tty") }
	_, err = GetPassword(nil, &out)
	assert.Error(t, err)
}
