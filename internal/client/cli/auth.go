package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/assettrack/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getSimpleText(a.reader, "Enter role (empty for staff)", a.out)
	if err != nil {
		return err
	}

	u, err := a.api.Register(ctx, userName, string(password), role)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %d, role %s)\n", u.Username, u.ID, u.Role)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.api.Login(ctx, userName, string(password)); err != nil {
		return err
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %d, role %s)\n", u.Username, u.ID, u.Role)
	return nil
}

// Logout forgets the token locally. Tokens are stateless, so the server
// is not told.
func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
