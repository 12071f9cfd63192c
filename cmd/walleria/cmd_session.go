package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/resource"
	"github.com/androiddevnotesforks/walleria/internal/store"
)

// openURL is replaced in tests.
var openURL = browser.OpenURL

func newLoginCmd() *cobra.Command {
	var noBrowser bool
	cmd := &cobra.Command{
		Use:   "login [code]",
		Short: "Log in with your Unsplash account",
		Long: `Log in with your Unsplash account.

Opens the authorization page in your browser and asks for the code it shows.
The code can also be passed as an argument. Requires api.access_key and
api.secret_key to be configured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			code := ""
			if len(args) > 0 {
				code = args[0]
			} else {
				loginURL := a.client.LoginURL()
				fmt.Fprintf(out, "Authorize walleria at:\n  %s\n", loginURL)
				fmt.Fprintf(out, "No account yet? Sign up at %s\n\n", a.client.JoinURL())
				if !noBrowser {
					if err := openURL(loginURL); err != nil {
						fmt.Fprintln(out, "Could not open a browser; open the URL above yourself.")
					}
				}
				fmt.Fprint(out, "Authorization code: ")
				if code, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			res := resource.Await(a.session.Login(cmd.Context(), code))
			if r, ok := res.(resource.Error[domain.AccessToken]); ok {
				return fmt.Errorf("login failed: %w", r.Err)
			}

			// The profile is saved in the background; wait so whoami sees it.
			a.session.Wait()
			profile, err := a.session.Profile(cmd.Context())
			if err != nil {
				fmt.Fprintln(out, "Logged in. Your profile could not be loaded yet; run 'walleria whoami --refresh'.")
				return nil
			}
			fmt.Fprintf(out, "Logged in as @%s.\n", profile.Username)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the authorization URL without opening a browser")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read code: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			loggedIn, err := a.session.IsLoggedIn(cmd.Context())
			if err != nil {
				return err
			}
			if !loggedIn {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in. Run 'walleria login'.")
				return nil
			}

			var profile domain.UserPrivateProfile
			if refresh {
				switch r := resource.Await(a.session.Refresh(cmd.Context())).(type) {
				case resource.Error[domain.UserPrivateProfile]:
					return fmt.Errorf("refresh profile: %w", r.Err)
				case resource.Success[domain.UserPrivateProfile]:
					profile = r.Value
				}
			} else {
				profile, err = a.session.Profile(cmd.Context())
				if errors.Is(err, store.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "Logged in, but no profile is cached. Run 'walleria whoami --refresh'.")
					return nil
				}
				if err != nil {
					return err
				}
			}
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the profile from Unsplash instead of the local cache")
	return cmd
}

func printProfile(w io.Writer, p domain.UserPrivateProfile) {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	fmt.Fprintf(w, "@%s", p.Username)
	if name != "" {
		fmt.Fprintf(w, " (%s)", name)
	}
	fmt.Fprintln(w)
	for _, f := range []struct{ label, value string }{
		{"Email", p.Email},
		{"Location", p.Location},
		{"Portfolio", p.PortfolioURL},
		{"Instagram", p.InstagramUsername},
		{"Bio", p.Bio},
	} {
		if f.value != "" {
			fmt.Fprintf(w, "  %-10s %s\n", f.label+":", f.value)
		}
	}
}
