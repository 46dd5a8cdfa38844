package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/trackkar/trackkar-cli/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing; they point to the interactive input helpers.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for credentials and creates an account. Format validation
// happens inside the session store, before any network call; a successful
// signup lands on the dashboard.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sessions.Signup(ctx, email, password); err != nil {
		return err
	}

	fmt.Println("Account created.")
	a.enterDashboard(ctx)
	return nil
}

// Login prompts for credentials and opens a session, then lands on the
// dashboard (or on the route the guard bounced us from, if any).
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sessions.Login(ctx, email, password); err != nil {
		return err
	}

	fmt.Println("Logged in.")
	target := a.resumeRoute()
	a.enterDashboard(ctx)
	if target != "/dashboard" {
		a.navigate(target)
	}
	return nil
}

// Logout tears down the background tasks and clears the session. Never
// fails.
func (a *App) Logout(ctx context.Context) error {
	a.leaveDashboard()
	a.sessions.Logout(ctx)
	a.pendingRoute = ""
	a.navigate("/")
	fmt.Println("Logged out.")
	return nil
}

// ShowProfile prints the current user's profile.
func (a *App) ShowProfile(ctx context.Context) error {
	if a.navigate("/profile") != "/profile" {
		return nil
	}

	user := a.sessions.User()
	if user == nil {
		return nil
	}

	fmt.Println("Email:", user.Email)
	if p := user.Profile; p != nil {
		fmt.Println("Name:   ", p.FirstName, p.LastName)
		fmt.Println("Phone:  ", p.Phone)
		fmt.Println("Address:", p.Address)
		fmt.Println("Company:", p.Company)
		fmt.Println("Role:   ", p.Role)
	}
	return nil
}

// EditProfile prompts for the profile fields (blank keeps the current
// value) and submits a partial update. On failure the stored profile is
// untouched.
func (a *App) EditProfile(ctx context.Context) error {
	if a.navigate("/profile") != "/profile" {
		return nil
	}

	user := a.sessions.User()
	if user == nil {
		return nil
	}
	current := models.Profile{}
	if user.Profile != nil {
		current = *user.Profile
	}

	var upd models.ProfileUpdate
	fields := []struct {
		prompt  string
		current string
		target  **string
	}{
		{"First name", current.FirstName, &upd.FirstName},
		{"Last name", current.LastName, &upd.LastName},
		{"Phone", current.Phone, &upd.Phone},
		{"Address", current.Address, &upd.Address},
		{"Company", current.Company, &upd.Company},
		{"Role", current.Role, &upd.Role},
	}
	for _, f := range fields {
		answer, err := GetOptionalText(a.reader, f.prompt, f.current, os.Stdout)
		if err != nil {
			return err
		}
		if answer != f.current {
			value := answer
			*f.target = &value
		}
	}

	if err := a.sessions.UpdateProfile(ctx, upd); err != nil {
		return err
	}
	fmt.Println("Profile updated.")
	return nil
}
