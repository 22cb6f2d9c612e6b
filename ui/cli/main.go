// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for bucketpad using the
// Cobra library. It defines the root command, the browse and open
// subcommands, and the service wiring shared between them.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"

	"github.com/toeirei/bucketpad/buildvars"
	"github.com/toeirei/bucketpad/internal/config"
	"github.com/toeirei/bucketpad/internal/editor"
	"github.com/toeirei/bucketpad/internal/i18n"
	"github.com/toeirei/bucketpad/internal/logging"
	"github.com/toeirei/bucketpad/internal/remote"
	"github.com/toeirei/bucketpad/internal/state"
	"github.com/toeirei/bucketpad/internal/tabs"
	"github.com/toeirei/bucketpad/internal/telemetry"
	"github.com/toeirei/bucketpad/internal/tui"
	"github.com/toeirei/bucketpad/internal/vfs"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var verbose bool
var showVersionFlag bool
var appConfig config.Config

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	// A "file not found" error is expected on first run; create a default
	// config so subsequent runs have a persisted file to inspect.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if verbose || appConfig.Debug {
		logging.SetDebug(true)
	}

	i18n.Init(appConfig.Language)
	return nil
}

// services bundles everything an interactive command needs.
type services struct {
	store   remote.Store
	cache   *state.Cache
	host    *vfs.MemHost
	editors *editor.Host
	manager *tabs.Manager
}

// newServices wires the remote store, cache, editor host and tab manager
// from the loaded configuration. Close releases the cache and, for SFTP,
// the connection.
func newServices(ctx context.Context) (*services, func(), error) {
	store, closeStore, err := buildStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	cache, err := state.Open(appConfig.CacheDir)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("could not open cache: %w", err)
	}

	host := vfs.NewMemHost()
	editors := editor.NewHost(host)
	manager := tabs.NewManager(tabs.Options{
		Store:    store,
		Host:     host,
		Editors:  editors,
		Confirm:  newStdinConfirmer(),
		Settings: config.NewSettings(&appConfig),
		Recorder: telemetry.LogRecorder{},
		Cache:    cache,
		Progress: tui.NewTermProgress(os.Stderr),
	})

	svc := &services{store: store, cache: cache, host: host, editors: editors, manager: manager}
	cleanup := func() {
		if err := manager.Dispose(); err != nil {
			log.Errorf("Error during tab cleanup: %v", err)
		}
		if err := cache.Close(); err != nil {
			log.Errorf("Error closing cache: %v", err)
		}
		closeStore()
	}
	return svc, cleanup, nil
}

// buildStore constructs the configured remote backend.
func buildStore(ctx context.Context) (remote.Store, func(), error) {
	switch appConfig.Backend {
	case "", "s3":
		store, err := remote.NewS3Store(ctx, appConfig.S3.Region, appConfig.S3.Endpoint)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case "sftp":
		if appConfig.SFTP.Host == "" || appConfig.SFTP.User == "" {
			return nil, nil, errors.New(i18n.T("config.error_sftp_incomplete"))
		}
		auth, err := remote.AuthMethods(appConfig.SFTP.PrivateKeyPath, "", promptPassword)
		if err != nil {
			return nil, nil, err
		}
		callback, err := hostKeyCallback()
		if err != nil {
			return nil, nil, err
		}
		store, err := remote.NewSFTPStore(appConfig.SFTP.Host, appConfig.SFTP.User, auth, callback)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want s3 or sftp)", appConfig.Backend)
	}
}

// promptPassword reads an SFTP password from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Print(i18n.T("cli.password_prompt", appConfig.SFTP.User, appConfig.SFTP.Host))
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return string(pw), nil
}

// hostKeyCallback verifies SFTP hosts against the user's known_hosts.
func hostKeyCallback() (ssh.HostKeyCallback, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".ssh", "known_hosts")
	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("could not load %s (needed to verify the SFTP host): %w", path, err)
	}
	return callback, nil
}

// Execute runs the CLI entrypoint. The cmd/bucketpad main package should
// call this function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}
		if path == "" {
			return nil, nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// NewRootCmd creates and configures a new root cobra command. Tests use
// it to build fresh, isolated instances.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bucketpad",
		Short: "Bucketpad opens remote object storage files in your local editor.",
		Long: `Bucketpad browses S3 or SFTP storage and opens remote files in
local editor tabs. Read-only previews and editable documents are kept
consistent per resource: switching a file to edit mode replaces its
preview, and edited content is uploaded back when the editor closes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Println(compositeVersion())
				os.Exit(0)
			}
			return setupDefaultServices(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `UI language ("en", "de")`)
	cmd.PersistentFlags().String("backend", "s3", `remote backend ("s3", "sftp")`)

	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newOpenCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newVersionCmd adds a lightweight `version` subcommand so users and CI
// can run `bucketpad version`.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", v)
			fmt.Printf("commit: %s\n", c)
			if d != "" {
				fmt.Printf("built: %s\n", d)
			}
		},
	}
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out = out + " (" + c + ")"
	}
	if d != "" {
		out = out + " built: " + d
	}
	return out
}

// resolveBuildVersion merges linker-injected values with module build
// info, preferring whichever carries real data.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		info, _ = debug.ReadBuildInfo()
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
