package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. Age is
// optional; an empty answer skips it.
func (a *App) Register(ctx context.Context) error {
	var req api.RegisterRequest
	var err error

	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
		{"Enter email", &req.Email},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.text, a.out); err != nil {
			return report(err)
		}
	}

	ageText, err := getSimpleText(a.reader, "Enter age (optional)", a.out)
	if err != nil {
		return report(err)
	}
	if ageText != "" {
		age, err := strconv.ParseFloat(ageText, 64)
		if err != nil {
			return report(fmt.Errorf("age must be a number"))
		}
		req.Age = &age
	}

	password, err := getPassword(a.out, newPasswordPrompt)
	if err != nil {
		return report(err)
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	if _, err := a.api.Register(ctx, req); err != nil {
		return report(err)
	}

	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and authenticates. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return report(err)
	}

	password, err := getPassword(a.out, passwordPrompt)
	if err != nil {
		return report(err)
	}
	defer common.WipeByteArray(password)

	au, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return report(fmt.Errorf("login unsuccessful: %w", err))
	}

	a.userEmail = au.Email
	printlnFn("Login successful")
	return nil
}

// Logout drops the session tokens.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userEmail = ""
	printlnFn("Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	user, err := a.api.Profile(ctx)
	if err != nil {
		return report(err)
	}

	printlnFn("ID:", user.ID)
	printlnFn("Name:", user.FirstName, user.LastName)
	printlnFn("Email:", user.Email)
	if user.Age != nil {
		printlnFn("Age:", *user.Age)
	}
	return nil
}
