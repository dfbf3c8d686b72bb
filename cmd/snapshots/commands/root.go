package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/PowerDNS/simpleblob"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PowerDNS/snapshots/config"
	"github.com/PowerDNS/snapshots/config/logger"
	"github.com/PowerDNS/snapshots/snapshot/storage"
)

var (
	configFile  string
	snapshotDir string
	debug       bool
	logConfig   bool
	conf        config.Config
)

// errMismatch makes Execute exit with status 1 without logging, the diff has
// already been written.
var errMismatch = errors.New("snapshot does not match")

var rootHelp = `This tool inspects and checks snapshot files written by snapshot tests.

Snapshots are read from the __snapshots__ directory in the current working
directory, unless --dir or the config file set another one.
`

var rootCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect and check test snapshots",
	Long:  rootHelp,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf = config.Default()
		conf.Version = version
		if configFile != "" {
			if err := conf.LoadYAMLFile(configFile, true); err != nil {
				return errors.Wrapf(err, "load config file %q", configFile)
			}
		}
		if snapshotDir != "" {
			conf.Directory = snapshotDir
		}
		// A config must always be valid, even if you later override some items.
		if err := conf.Check(); err != nil {
			return errors.Wrap(err, "config error")
		}

		conf.Log = conf.Log.Merge(logger.FlagConfig)
		if debug {
			conf.Log.Level = "debug"
		}
		logger.Configure(conf.Log)
		logrus.WithField("version", version).Debug("Running")
		if logConfig {
			logrus.Infof("Effective configuration:\n%s\n", conf.String())
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
	Version:       version,
	SilenceErrors: true, // logged by Execute
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (optional)")
	rootCmd.PersistentFlags().StringVarP(&snapshotDir, "dir", "d", "", "Snapshot directory (default: "+config.DefaultDirectory+")")
	rootCmd.PersistentFlags().BoolVar(&logConfig, "log-config", false, "Log the evaluated configuration on startup")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	logger.RegisterFlagsWith(rootCmd.PersistentFlags().StringVar)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errMismatch) {
			logrus.WithError(err).Error("Error")
		}
		os.Exit(1)
	}
}

// openDir opens the snapshot storage for dir, or for the configured directory
// when dir is empty. Relative paths are taken relative to the working
// directory. With mustExist the fs backend is not allowed to create it.
func openDir(ctx context.Context, dir string, mustExist bool) (simpleblob.Interface, string, error) {
	if dir == "" {
		dir = conf.Directory
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	if mustExist && conf.Storage.Type == config.DefaultStorageType {
		if _, err := os.Stat(dir); err != nil {
			return nil, "", errors.Wrap(err, "snapshot directory")
		}
	}
	st, err := storage.Open(ctx, conf.Storage, dir)
	if err != nil {
		return nil, "", err
	}
	return st, dir, nil
}
