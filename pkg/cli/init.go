package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const starterConfig = `# offerd configuration
port: 4380

# Store offers in memory only (nothing written to disk).
# noPersist: true

# Directory for the offers data file. Defaults to the XDG data dir.
# dataDir: /var/lib/offerd

# Accounts allowed to log in. Only the administrator role may manage
# offers; other roles can log in but get 403 on every offer endpoint.
users:
  - username: admin
    password: change-me
    role: administrator

session:
  # Signing secret for session cookies. Leave empty to generate a fresh
  # one at startup (sessions then expire on restart).
  secret: ""
  ttl: 12h

log:
  level: info
  format: text
`

var initOverwrite bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "offerd.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !initOverwrite {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := os.WriteFile(path, []byte(starterConfig), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s. Edit the users section, then run: offerd serve --config %s\n", path, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initOverwrite, "force", "f", false, "Overwrite an existing file")
}
