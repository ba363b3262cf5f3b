package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/offerdesk/offerd/pkg/admin/adminclient"
	"github.com/offerdesk/offerd/pkg/console"
)

var consoleFlagVals struct {
	username string
	password string
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive terminal client for the offer admin API",
	Long: `Open an interactive console against a running offerd server. Prompts
for credentials unless --username and --password are given.`,
	Example: `  offerd console
  offerd console --server-url http://localhost:4380 --username admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username := consoleFlagVals.username
		password := consoleFlagVals.password

		if username == "" || password == "" {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Username").
						Value(&username).
						Validate(func(s string) error {
							if s == "" {
								return errors.New("username is required")
							}
							return nil
						}),
					huh.NewInput().
						Title("Password").
						EchoMode(huh.EchoModePassword).
						Value(&password),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}

		client := adminclient.New(serverURL)
		if err := client.Login(cmd.Context(), username, password); err != nil {
			if errors.Is(err, adminclient.ErrUnauthenticated) {
				return fmt.Errorf("login failed: check username and password")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		return console.New(client).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().StringVarP(&consoleFlagVals.username, "username", "u", "", "Username to log in with")
	consoleCmd.Flags().StringVar(&consoleFlagVals.password, "password", "", "Password to log in with")
}
