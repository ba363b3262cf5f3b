package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/offerdesk/offerd/internal/storage"
	"github.com/offerdesk/offerd/pkg/admin"
	"github.com/offerdesk/offerd/pkg/config"
	"github.com/offerdesk/offerd/pkg/logging"
	"github.com/offerdesk/offerd/pkg/store"
	"github.com/offerdesk/offerd/pkg/store/file"
)

type serveFlags struct {
	port       int
	configPath string
	dataDir    string
	noPersist  bool
	logLevel   string
	logFormat  string
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the offer admin server (foreground)",
	Long: `Start the offer admin server. Offers are stored in a JSON file under
the data directory unless --no-persist is given, in which case they live
in memory and vanish on exit.

Users allowed to log in come from the configuration file; see
'offerd init' for a starter config.`,
	Example: `  # Start with defaults
  offerd serve --config offerd.yaml

  # Custom port, in-memory store
  offerd serve --config offerd.yaml --port 3000 --no-persist`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

func runServe(cmd *cobra.Command, f *serveFlags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	// Flags win over the config file.
	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if cmd.Flags().Changed("no-persist") {
		cfg.NoPersist = f.noPersist
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: os.Stderr,
	})

	if len(cfg.Users) == 0 {
		log.Warn("no users configured, nobody will be able to log in")
	}

	var offers store.OfferStore
	var closeStore func() error
	if cfg.NoPersist {
		log.Info("using in-memory offer store")
		offers = storage.NewInMemoryOfferStore()
		closeStore = func() error { return nil }
	} else {
		fs := file.New(store.Config{DataDir: cfg.DataDir})
		fs.SetLogger(log)
		if err := fs.Open(cmd.Context()); err != nil {
			return fmt.Errorf("failed to open offer store: %w", err)
		}
		log.Info("using file offer store", "dataDir", fs.DataDir())
		offers = fs
		closeStore = fs.Close
	}

	api, err := admin.New(cfg, offers,
		admin.WithLogger(log),
		admin.WithVersion(Version),
	)
	if err != nil {
		return err
	}

	if err := api.Start(); err != nil {
		return err
	}
	fmt.Printf("offerd listening on http://localhost:%d (admin page at /ng-admin)\n", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	if err := api.Stop(); err != nil {
		log.Warn("error stopping server", "error", err)
	}
	return closeStore()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port")
	serveCmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to configuration file")
	serveCmd.Flags().StringVar(&f.dataDir, "data-dir", "", "Directory for the offers data file")
	serveCmd.Flags().BoolVar(&f.noPersist, "no-persist", false, "Keep offers in memory only")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
}
