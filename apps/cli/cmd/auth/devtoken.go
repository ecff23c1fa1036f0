package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/cliutil"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/auth/devtoken"
)

func devTokenCommand() *cobra.Command {
	var (
		params devtoken.Params
		header bool
	)

	cmd := &cobra.Command{
		Use:   "devtoken",
		Short: "Mint an unsigned Firebase-shaped token for an api server running with AUTH_PROVIDER=dev",
		Example: "  marketplace auth devtoken --user-id u1 --email ops@example.com --role admin\n" +
			"  marketplace auth devtoken --user-id u2 --email h@example.com --role hotel --hotel-id h1 --header",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if params.ProjectID == "" {
				cfg, _, err := cliutil.LoadConfig()
				if err != nil {
					return err
				}
				params.ProjectID = cfg.ProjectID
			}
			if params.ProjectID == "" {
				return errors.New("--project-id or FIREBASE_PROJECT_ID is required")
			}

			token, err := devtoken.BuildUnsignedFirebaseToken(params, time.Now().UTC())
			if err != nil {
				return err
			}

			if header {
				fmt.Fprintf(cmd.OutOrStdout(), "Authorization: Bearer %s\n", token)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&params.ProjectID, "project-id", "", "Firebase project id for iss/aud (defaults to FIREBASE_PROJECT_ID)")
	flags.StringVar(&params.UserID, "user-id", "", "auth uid")
	flags.StringVar(&params.Email, "email", "", "email claim")
	flags.StringVar(&params.Role, "role", "", "admin, hotel, vendor, marketing or user")
	flags.StringVar(&params.HotelID, "hotel-id", "", "linked hotel profile; required for --role hotel")
	flags.StringVar(&params.VendorID, "vendor-id", "", "linked vendor profile; required for --role vendor")
	flags.StringVar(&params.Name, "name", "", "display name")
	flags.BoolVar(&params.EmailVerified, "email-verified", true, "email_verified claim")
	flags.StringVar(&params.SignInProvider, "sign-in-provider", "password", "firebase.sign_in_provider claim")
	flags.DurationVar(&params.ExpiresIn, "expires-in", time.Hour, "token lifetime")
	flags.StringVar(&params.Issuer, "issuer", "", "override iss")
	flags.BoolVar(&header, "header", false, "print a ready-to-use Authorization header")

	for _, name := range []string{"user-id", "email", "role"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
