package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/xmrbtc/swapmon/swaputil"
)

type Command struct {
	Format           string
	Description      string
	ShortDescription string
}

var lsCommand = &Command{
	Format:           swaputil.White("ls\n"),
	Description:      "Show the tracked swap: current state, safety classification, timelock phase and pending work.\n",
	ShortDescription: "Show the tracked swap\n",
}

var timelineCommand = &Command{
	Format:           swaputil.White("timeline\n"),
	Description:      "Show the three-segment timelock countdown for the tracked swap.\n",
	ShortDescription: "Show the timelock countdown\n",
}

var approvalsCommand = &Command{
	Format:           swaputil.White("approvals\n"),
	Description:      "List the approval requests the daemon is waiting on, with their countdowns.\n",
	ShortDescription: "List pending approval requests\n",
}

var acceptCommand = &Command{
	Format:           fmt.Sprintf("%s%s\n", swaputil.White("accept"), swaputil.ReqColor("request id")),
	Description:      "Accept a pending approval request.  Expired requests can no longer be accepted locally.\n",
	ShortDescription: "Accept an approval request\n",
}

var denyCommand = &Command{
	Format:           fmt.Sprintf("%s%s\n", swaputil.White("deny"), swaputil.ReqColor("request id")),
	Description:      "Deny a pending approval request.\n",
	ShortDescription: "Deny an approval request\n",
}

var tasksCommand = &Command{
	Format:           swaputil.White("tasks\n"),
	Description:      "Show background daemon work (wallet syncs and the like), grouped by kind.\n",
	ShortDescription: "Show background daemon work\n",
}

var summariesCommand = &Command{
	Format:           swaputil.White("summaries\n"),
	Description:      "List locally cached summaries of past swaps.\n",
	ShortDescription: "List cached swap summaries\n",
}

var summaryCommand = &Command{
	Format:           fmt.Sprintf("%s%s\n", swaputil.White("summary"), swaputil.ReqColor("swap id")),
	Description:      "Show one swap's summary, fetching it from the daemon if it isn't cached.\n",
	ShortDescription: "Show one swap's summary\n",
}

var helpCommand = &Command{
	Format:           fmt.Sprintf("%s%s\n", swaputil.White("help"), swaputil.OptColor("command")),
	Description:      "Show information about a given command\n",
	ShortDescription: "Show information about a given command\n",
}

var exitCommand = &Command{
	Format:           swaputil.White("exit\n"),
	Description:      fmt.Sprintf("Alias: %s\nExit the interactive shell.\n", swaputil.White("quit")),
	ShortDescription: "Exit the interactive shell.\n",
}

// Shellparse parses user input and hands it to command functions if matching
func (sh *swapShell) Shellparse(cmdslice []string) error {
	var err error
	var args []string
	cmd := cmdslice[0]
	if len(cmdslice) > 1 {
		args = cmdslice[1:]
	}

	if cmd == "exit" || cmd == "quit" {
		return fmt.Errorf("user exit")
	}

	if cmd == "help" {
		err = sh.Help(args)
		if err != nil {
			fmt.Fprintf(color.Output, "help error: %s\n", err)
		}
		return nil
	}

	if cmd == "ls" {
		err = sh.Ls(args)
		if err != nil {
			fmt.Fprintf(color.Output, "ls error: %s\n", err)
		}
		return nil
	}

	if cmd == "timeline" {
		err = sh.Timeline(args)
		if err != nil {
			fmt.Fprintf(color.Output, "timeline error: %s\n", err)
		}
		return nil
	}

	if cmd == "approvals" {
		err = sh.Approvals(args)
		if err != nil {
			fmt.Fprintf(color.Output, "approvals error: %s\n", err)
		}
		return nil
	}

	if cmd == "accept" {
		err = sh.Accept(args)
		if err != nil {
			fmt.Fprintf(color.Output, "accept error: %s\n", err)
		}
		return nil
	}

	if cmd == "deny" {
		err = sh.Deny(args)
		if err != nil {
			fmt.Fprintf(color.Output, "deny error: %s\n", err)
		}
		return nil
	}

	if cmd == "tasks" {
		err = sh.Tasks(args)
		if err != nil {
			fmt.Fprintf(color.Output, "tasks error: %s\n", err)
		}
		return nil
	}

	if cmd == "summaries" {
		err = sh.Summaries(args)
		if err != nil {
			fmt.Fprintf(color.Output, "summaries error: %s\n", err)
		}
		return nil
	}

	if cmd == "summary" {
		err = sh.Summary(args)
		if err != nil {
			fmt.Fprintf(color.Output, "summary error: %s\n", err)
		}
		return nil
	}

	fmt.Fprintf(color.Output, "Command not recognized. type help for command list.\n")
	return nil
}

var helpCommands = []struct {
	name string
	cmd  *Command
}{
	{"ls", lsCommand},
	{"timeline", timelineCommand},
	{"approvals", approvalsCommand},
	{"accept", acceptCommand},
	{"deny", denyCommand},
	{"tasks", tasksCommand},
	{"summaries", summariesCommand},
	{"summary", summaryCommand},
	{"help", helpCommand},
	{"exit", exitCommand},
}

func (sh *swapShell) Help(textArgs []string) error {
	if len(textArgs) == 0 {
		fmt.Fprintf(color.Output, "%s\n", swaputil.Header("Commands:"))
		for _, entry := range helpCommands {
			fmt.Fprintf(color.Output, "%s%s", entry.cmd.Format, entry.cmd.ShortDescription)
		}
		return nil
	}

	for _, entry := range helpCommands {
		if entry.name == textArgs[0] {
			fmt.Fprintf(color.Output, "%s%s", entry.cmd.Format, entry.cmd.Description)
			return nil
		}
	}
	return fmt.Errorf("no such command: %s", textArgs[0])
}
