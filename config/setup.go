package config

import (
	"io"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"

	"github.com/xmrbtc/swapmon/consts"
	"github.com/xmrbtc/swapmon/logging"
)

// createDefaultConfigFile creates a config file  -- only call this if the
// config file isn't already there
func createDefaultConfigFile(destinationPath string) error {
	dest, err := os.OpenFile(filepath.Join(destinationPath, DefaultConfigFilename),
		os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer dest.Close()

	_, err = dest.WriteString("daemon=" + DefaultDaemonAddr + "\n")
	return err
}

// Setup fills in a Config from, in increasing precedence, defaults, the ini
// config file in the home directory and the command line.  It also creates
// the home directory on first run and points the logger at the log file.
func Setup(conf *Config) {
	// Pre-parse the command line to pick up an alternative home
	// directory before the ini file is located.
	preconf := *conf
	preParser := NewConfigParser(&preconf, flags.HelpFlag)
	_, err := preParser.ParseArgs(os.Args)
	if err != nil {
		logging.Fatal(err)
	}
	if preconf.HomeDir == "" {
		preconf.HomeDir = DefaultHomeDirName
	}

	if _, err := os.Stat(preconf.HomeDir); os.IsNotExist(err) {
		if err := os.MkdirAll(preconf.HomeDir, 0700); err != nil {
			logging.Fatal(err)
		}
		if err := createDefaultConfigFile(preconf.HomeDir); err != nil {
			logging.Fatal(err)
		}
	} else if _, err := os.Stat(filepath.Join(preconf.HomeDir, DefaultConfigFilename)); os.IsNotExist(err) {
		if err := createDefaultConfigFile(preconf.HomeDir); err != nil {
			logging.Fatal(err)
		}
	}

	conf.ConfigFile = filepath.Join(preconf.HomeDir, DefaultConfigFilename)

	parser := NewConfigParser(conf, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(conf.ConfigFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			logging.Fatal(err)
		}
	}

	// Command line takes precedence over the ini file.
	_, err = parser.ParseArgs(os.Args)
	if err != nil {
		logging.Fatal(err)
	}

	if conf.HomeDir == "" {
		conf.HomeDir = preconf.HomeDir
	}
	if conf.Daemon == "" {
		conf.Daemon = DefaultDaemonAddr
	}
	if conf.CancelOffset == 0 {
		conf.CancelOffset = consts.DefaultCancelTimelock
	}
	if conf.PunishOffset == 0 {
		conf.PunishOffset = consts.DefaultPunishTimelock
	}
	if conf.AutoReconnectInterval == 0 {
		conf.AutoReconnectInterval = DefaultAutoReconnectInterval
	}

	logFilePath := filepath.Join(conf.HomeDir, DefaultLogFilename)
	logfile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		logging.Fatal(err)
	}
	if conf.Verbose {
		logging.SetLogLevel(int(logging.LogLevelDebug))
		logging.SetLogFile(io.Writer(logfile))
	} else {
		logging.SetLogLevel(int(logging.LogLevelInfo))
		logging.SetLogFileOnly(io.Writer(logfile))
	}
}
