package config

import (
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

type Config struct { // define a struct for usage with go-flags
	Daemon     string `long:"daemon" description:"swapd websocket address in the form of [<host>][:<port>]"`
	HomeDir    string `long:"dir" description:"Specify home directory of swapmon as an absolute path."`
	ConfigFile string

	CancelOffset uint32 `long:"canceloffset" description:"Cancel timelock offset in blocks, must match the daemon."`
	PunishOffset uint32 `long:"punishoffset" description:"Punish timelock offset in blocks, must match the daemon."`

	NoAuth  bool `long:"noauth" description:"Connect without an auth token (daemon on localhost only)."`
	Verbose bool `short:"v" long:"verbose" description:"Set verbosity to true."`

	AutoReconnect         bool  `long:"autoReconnect" description:"Attempts to automatically reconnect to the daemon when the connection drops."`
	AutoReconnectInterval int64 `long:"autoReconnectInterval" description:"The interval (in seconds) between reconnect attempts"`
}

var (
	DefaultHomeDirName           = filepath.Join(os.Getenv("HOME"), ".swapmon")
	DefaultConfigFilename        = "swapmon.conf"
	DefaultHistoryDBFilename     = "history.db"
	DefaultAuthTokenFilename     = "authtoken.enc"
	DefaultLogFilename           = "swapmon.log"
	DefaultDaemonAddr            = "127.0.0.1:8787"
	DefaultAutoReconnect         = false
	DefaultAutoReconnectInterval = int64(30)
)

// NewConfigParser returns a new command line flags parser.
func NewConfigParser(conf *Config, options flags.Options) *flags.Parser {
	parser := flags.NewParser(conf, options)
	return parser
}
