package cli

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"contentproof/internal/verify"
)

var errNoInput = errors.New("nothing to verify")

func (a *App) VerifyText(ctx context.Context, text string) error {
	if !a.requireDashboard() {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		t, err := GetSimpleText(a.reader, "Text to verify", a.out)
		if err != nil {
			return err
		}
		text = t
	}
	// Empty input never reaches the service.
	if strings.TrimSpace(text) == "" {
		a.println("Error:", errNoInput)
		return errNoInput
	}
	a.println("Verifying, this waits for the transaction receipt...")
	return a.showOutcome(a.api.VerifyText(ctx, text))
}

func (a *App) VerifyFile(ctx context.Context, path string) error {
	if !a.requireDashboard() {
		return nil
	}
	if path == "" {
		a.println("Error:", errNoInput)
		return errNoInput
	}
	data, err := a.readFile(path)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	if len(data) == 0 {
		a.println("Error:", errNoInput)
		return errNoInput
	}
	a.println("Verifying, this waits for the transaction receipt...")
	return a.showOutcome(a.api.VerifyFile(ctx, filepath.Base(path), data))
}

func (a *App) VerifyHash(ctx context.Context, hash string) error {
	if !a.requireDashboard() {
		return nil
	}
	if hash == "" {
		a.println("Error:", errNoInput)
		return errNoInput
	}
	return a.showOutcome(a.api.VerifyHash(ctx, hash))
}

func (a *App) showOutcome(out *verify.Outcome, err error) error {
	if err != nil {
		a.report(err)
		return err
	}
	a.printOutcome(out)
	return nil
}

func (a *App) printOutcome(out *verify.Outcome) {
	phases := make([]string, len(out.Phases))
	for i, p := range out.Phases {
		phases[i] = string(p)
	}
	a.printf("Result: %s (%s)\n", out.Phase, strings.Join(phases, " -> "))
	if out.Digest != "" {
		a.printf("  digest:  %s\n", out.Digest)
	}
	if out.CID != "" {
		a.printf("  cid:     %s\n", out.CID)
	}
	if out.GatewayURL != "" {
		a.printf("  gateway: %s\n", out.GatewayURL)
	}
	switch {
	case out.Marker != "":
		a.printf("  tx:      %s\n", out.Marker)
	case out.TxHash != "":
		a.printf("  tx:      %s (block %d)\n", out.TxHash, out.BlockNumber)
	}
	if out.Error != "" {
		a.printf("  error:   %s\n", out.Error)
	}
}

func (a *App) Status(ctx context.Context) error {
	if !a.requireDashboard() {
		return nil
	}
	snap, err := a.api.Status(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("Phase: %s, can submit: %t\n", snap.Phase, snap.CanSubmit)
	if snap.Last != nil {
		a.printOutcome(snap.Last)
	}
	return nil
}

func (a *App) History(ctx context.Context, account string) error {
	if !a.requireDashboard() {
		return nil
	}
	view, err := a.api.History(ctx, account)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("History for %s: %d entries\n", view.Account, len(view.Entries))
	for _, e := range view.Entries {
		line := e.Timestamp.Format("2006-01-02 15:04:05") + "  " + e.ContentHash.String()
		if e.CID != "" {
			line += "  " + e.CID
		}
		a.println(line)
	}
	return nil
}

func (a *App) Records(ctx context.Context, limit, offset int) error {
	if !a.requireDashboard() {
		return nil
	}
	page, err := a.api.Records(ctx, limit, offset)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("Records %d-%d of %d\n", page.Offset+min(1, len(page.Data)), page.Offset+len(page.Data), page.Total)
	for _, r := range page.Data {
		a.printf("%s  %-4s  %-16s  %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Mode, r.Result, r.Content)
	}
	return nil
}

func (a *App) Chain(ctx context.Context) error {
	st, err := a.api.ChainStatus(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	if st.Connected {
		a.printf("Chain: connected to %d as %s, contract %s, pinning variant %t\n", st.ChainID, st.Account, st.Contract, st.Pinning)
		return nil
	}
	a.printf("Chain: not connected: %s\n", st.Message)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	if !a.requireDashboard() {
		return nil
	}
	claims, err := a.api.Me(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("%v <%v> id=%v\n", claims["name"], claims["email"], claims["_id"])
	return nil
}
