package snaptest

import (
	"flag"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/PowerDNS/snapshots/config"
)

const (
	// UpdateFlag is the name of the test binary flag that enables update mode,
	// as in: go test ./... -update-snapshots
	UpdateFlag = "update-snapshots"

	// UpdateEnv is the environment variable that enables update mode
	UpdateEnv = "SNAPSHOTS_UPDATE"

	// ConfigEnv names a YAML config file for the default Matcher
	ConfigEnv = "SNAPSHOTS_CONFIG"
)

var updateFlag = flag.Bool(UpdateFlag, false, "Rewrite snapshots that do not match")

// UpdateFromArgs reports if the update flag is present in a command line.
// Both the single and double dash forms are accepted.
func UpdateFromArgs(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-" + UpdateFlag, "--" + UpdateFlag:
			return true
		}
	}
	return false
}

// updateFromEnv parses UpdateEnv. The second return value is false when it
// is not set.
func updateFromEnv() (bool, bool, error) {
	val, isSet := os.LookupEnv(UpdateEnv)
	if !isSet || val == "" {
		return false, false, nil
	}
	update, err := strconv.ParseBool(val)
	if err != nil {
		return false, false, errors.Wrapf(err, "invalid %s", UpdateEnv)
	}
	return update, true, nil
}

// UpdateRequested resolves update mode for the current test binary.
// The flag enables it unconditionally. Otherwise the environment variable
// takes precedence over the config.
func UpdateRequested(c config.Config, log logrus.FieldLogger) bool {
	if *updateFlag || UpdateFromArgs(os.Args[1:]) {
		return true
	}
	update, isSet, err := updateFromEnv()
	if err != nil {
		log.WithError(err).Warn("Ignoring update environment variable")
	}
	if isSet {
		return update
	}
	return c.Update
}
