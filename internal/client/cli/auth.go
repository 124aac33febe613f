package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/medguide/internal/client/services"
	"github.com/dmitrijs2005/medguide/internal/common"
)

// Register prompts for the new account details and creates a local user.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	staffAnswer, err := getSimpleText(a.reader, "Staff member? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	isStaff := strings.EqualFold(staffAnswer, "y") || strings.EqualFold(staffAnswer, "yes")

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Register(ctx, email, string(password), fullName, isStaff)
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			printlnFn("This email is already registered. Try logging in instead.")
			return err
		}
		printlnFn("Registration failed, please try again.")
		return err
	}

	a.setUser(user)
	printlnFn(fmt.Sprintf("Registered %s (id %d)", user.Email, user.ID))
	return nil
}

// Login prompts for credentials and authenticates against the local users
// table. An empty password falls back to the remembered one when the user
// opted in earlier.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	plain := string(password)
	if plain == "" && a.secureStore != nil {
		remembered, err := a.secureStore.GetPassword(ctx)
		if err == nil && remembered != "" {
			plain = remembered
		}
	}

	user, err := a.authService.Login(ctx, email, plain)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUserNotFound):
			printlnFn("No account found for this email.")
		case errors.Is(err, common.ErrWrongPassword):
			printlnFn("Wrong password.")
		default:
			printlnFn("Login failed, please try again.")
		}
		return err
	}

	a.setUser(user)
	printlnFn(fmt.Sprintf("Logged in as %s", user.Email))

	if a.secureStore != nil && len(password) > 0 {
		answer, err := getSimpleText(a.reader, "Remember password on this device? (y/n)", os.Stdout)
		if err == nil && strings.EqualFold(answer, "y") {
			if err := a.secureStore.SetPassword(ctx, plain); err != nil {
				printlnFn("Could not remember the password.")
			}
		}
	}
	return nil
}

// Logout purges the stored session token and drops the in-memory user.
func (a *App) Logout(ctx context.Context) error {
	if err := a.tokenService.RemoveToken(ctx); err != nil {
		printlnFn("Logout failed, please try again.")
		return err
	}
	a.setUser(nil)
	printlnFn("Logged out.")
	return nil
}

// Whoami prints the current user and whether a valid session token is
// stored.
func (a *App) Whoami(ctx context.Context) error {
	user := a.user()
	if user == nil {
		printlnFn("Not logged in.")
		return nil
	}

	role := "patient"
	if user.IsStaff {
		role = "staff"
	}
	printlnFn(fmt.Sprintf("%s (%s, id %d)", user.Email, role, user.ID))

	ok, err := a.tokenService.HasValidToken(ctx)
	if err != nil {
		return err
	}
	if ok {
		printlnFn("Session token: valid")
	} else {
		printlnFn("Session token: none")
	}
	return nil
}

// Token prints the stored access token's claims, or its class when it is
// opaque.
func (a *App) Token(ctx context.Context) error {
	token, err := a.tokenService.GetToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		printlnFn("No session token stored.")
		return nil
	}

	decoded := a.tokenService.DecodeToken(token)
	if decoded == nil {
		printlnFn("Opaque token (no client-side expiry).")
		return nil
	}
	printlnFn(fmt.Sprintf("JWT token: sub=%s email=%s exp=%d", decoded.Subject, decoded.Email, decoded.ExpiresAt))
	return nil
}

// SaveSession is called by the remote-API layer after a successful server
// authentication; exposed on App so the REPL's session command can use it
// too.
func (a *App) SaveSession(ctx context.Context, data services.TokenData) error {
	return a.tokenService.SaveToken(ctx, data)
}

// Session prompts for the tokens handed out by the remote API and stores
// them, so the session watcher can track their expiry.
func (a *App) Session(ctx context.Context) error {
	access, err := getSimpleText(a.reader, "Paste access token", os.Stdout)
	if err != nil {
		return err
	}
	if access == "" {
		printlnFn("No token entered.")
		return nil
	}

	refresh, err := getSimpleText(a.reader, "Paste refresh token (optional)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.SaveSession(ctx, services.TokenData{AccessToken: access, RefreshToken: refresh}); err != nil {
		printlnFn("Could not save the session token.")
		return err
	}
	printlnFn("Session token saved.")
	return nil
}
