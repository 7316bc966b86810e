package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/howeyc/gopass"

	"github.com/xmrbtc/swapmon/client"
	"github.com/xmrbtc/swapmon/config"
	"github.com/xmrbtc/swapmon/logging"
	"github.com/xmrbtc/swapmon/swaputil"
)

/*
swap-af

Text mode interface to a running swap daemon.  It subscribes to the
daemon's progress stream and mirrors the state of the foregrounded swap,
pending approval requests and background task progress, and forwards
accept/deny decisions back over RPC.
*/

const shellHistoryFilename = "swap-af.history"

type swapShell struct {
	cli *client.Client
}

// readAuthToken loads the encrypted daemon token from the home dir,
// prompting for it on first run.
func readAuthToken(homeDir string) string {
	tokenPath := filepath.Join(homeDir, config.DefaultAuthTokenFilename)

	if swaputil.HaveAuthToken(tokenPath) {
		pass, err := swaputil.PromptPassphrase(false)
		if err != nil {
			logging.Fatal(err)
		}
		token, err := swaputil.LoadAuthToken(tokenPath, pass)
		if err != nil {
			logging.Fatal(err)
		}
		return string(token)
	}

	fmt.Printf("daemon auth token: ")
	token, err := gopass.GetPasswd()
	if err != nil {
		logging.Fatal(err)
	}
	pass, err := swaputil.PromptPassphrase(true)
	if err != nil {
		logging.Fatal(err)
	}
	if err := swaputil.StoreAuthToken(tokenPath, token, pass); err != nil {
		logging.Fatal(err)
	}
	return string(token)
}

func newAutoCompleter() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("ls"),
		readline.PcItem("timeline"),
		readline.PcItem("approvals"),
		readline.PcItem("accept"),
		readline.PcItem("deny"),
		readline.PcItem("tasks"),
		readline.PcItem("summaries"),
		readline.PcItem("summary"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func main() {
	conf := config.Config{}
	config.Setup(&conf)

	var token string
	if !conf.NoAuth {
		token = readAuthToken(conf.HomeDir)
	}

	cli, err := client.New(client.Options{
		DaemonAddr:        conf.Daemon,
		AuthToken:         token,
		HistoryPath:       filepath.Join(conf.HomeDir, config.DefaultHistoryDBFilename),
		CancelOffset:      conf.CancelOffset,
		PunishOffset:      conf.PunishOffset,
		AutoReconnect:     conf.AutoReconnect,
		ReconnectInterval: time.Duration(conf.AutoReconnectInterval) * time.Second,
	})
	if err != nil {
		logging.Fatal(err)
	}
	defer cli.Stop()

	if err := cli.Connect(); err != nil {
		logging.Fatalf("connecting to daemon at %s: %s", conf.Daemon, err.Error())
	}

	sh := &swapShell{cli: cli}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       swaputil.Prompt("swap-af") + swaputil.White("# "),
		HistoryFile:  filepath.Join(conf.HomeDir, shellHistoryFilename),
		AutoComplete: newAutoCompleter(),
	})
	if err != nil {
		logging.Fatal(err)
	}
	defer rl.Close()

	// main shell loop
	for {
		msg, err := rl.Readline()
		if err != nil {
			break
		}
		msg = strings.TrimSpace(msg)
		if len(msg) == 0 {
			continue
		}
		rl.SaveHistory(msg)

		cmdslice := strings.Fields(msg)
		fmt.Fprintf(color.Output, "entered command: %s\n", msg)

		err = sh.Shellparse(cmdslice)
		if err != nil { // only error should be user exit
			break
		}
	}
}
