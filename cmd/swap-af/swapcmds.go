package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/xmrbtc/swapmon/swapstate"
	"github.com/xmrbtc/swapmon/swaputil"
	"github.com/xmrbtc/swapmon/timelock"
)

const timelineBarWidth = 20

func (sh *swapShell) Ls(textArgs []string) error {
	if sh.cli.Connected() {
		fmt.Fprintf(color.Output, "daemon: %s\n", swaputil.Green("connected"))
	} else {
		fmt.Fprintf(color.Output, "daemon: %s\n", swaputil.Red("disconnected"))
	}

	snap, ok := sh.cli.ActiveSwap()
	if !ok {
		fmt.Fprintf(color.Output, "no active swap\n")
	} else {
		fmt.Fprintf(color.Output, "swap %s\n", swaputil.SwapID(snap.SwapID))
		fmt.Fprintf(color.Output, "  last event: %s\n", swaputil.White(snap.Current.Tag))
		if snap.Previous != nil {
			fmt.Fprintf(color.Output, "  previous:   %s\n", swaputil.Faint(snap.Previous.Tag))
		}

		if stateStr, ok := sh.cli.ActiveState(); ok {
			s := swapstate.StateName(stateStr)
			fmt.Fprintf(color.Output, "  state:      %s\n", swaputil.StateColor(s))

			flags := []string{}
			if swapstate.IsRunning(s) {
				flags = append(flags, "running")
			}
			if swapstate.IsCompleted(s) {
				flags = append(flags, "completed")
			}
			if swapstate.IsPossiblyCancellable(s) {
				flags = append(flags, "cancellable")
			}
			if swapstate.IsPossiblyRefundable(s) {
				flags = append(flags, "refundable")
			}
			if len(flags) > 0 {
				fmt.Fprintf(color.Output, "  flags:      %s\n", strings.Join(flags, ", "))
			}
		}

		if v, ok := sh.cli.ActiveTimelock(); ok {
			fmt.Fprintf(color.Output, "  timelock:   %s at block %d\n",
				swaputil.PhaseColor(v.ActivePhase), v.AbsoluteBlock)
		}
	}

	if n := len(sh.cli.PendingApprovals()); n > 0 {
		fmt.Fprintf(color.Output, "%s pending approval(s), see %s\n",
			swaputil.Yellow(n), swaputil.White("approvals"))
	}
	if n := len(sh.cli.BackgroundTasks()); n > 0 {
		fmt.Fprintf(color.Output, "%d background task kind(s), see %s\n",
			n, swaputil.White("tasks"))
	}
	return nil
}

func (sh *swapShell) Timeline(textArgs []string) error {
	v, ok := sh.cli.ActiveTimelock()
	if !ok {
		return fmt.Errorf("no timelock reported for the active swap yet")
	}

	for i, seg := range v.Segments {
		var filled int
		switch {
		case i < v.ActiveIndex:
			filled = timelineBarWidth
		case i > v.ActiveIndex:
			filled = 0
		default:
			filled = int(v.Progress * timelineBarWidth)
		}
		bar := strings.Repeat("=", filled) + strings.Repeat(" ", timelineBarWidth-filled)

		dur := fmt.Sprintf("%d blocks", seg.Duration)
		if seg.Phase == timelock.PhaseDanger {
			dur = "open ended"
		}
		marker := " "
		if i == v.ActiveIndex {
			marker = ">"
		}
		fmt.Fprintf(color.Output, "%s [%s] %s from block %d, %s\n",
			marker, bar, swaputil.PhaseColor(seg.Phase), seg.StartBlock, dur)
	}
	fmt.Fprintf(color.Output, "absolute block %d, %.0f%% through the %s segment\n",
		v.AbsoluteBlock, v.Progress*100, swaputil.PhaseColor(v.ActivePhase))
	return nil
}

func (sh *swapShell) Approvals(textArgs []string) error {
	reqs := sh.cli.PendingApprovals()
	if len(reqs) == 0 {
		fmt.Fprintf(color.Output, "no pending approval requests\n")
		return nil
	}

	for i, req := range reqs {
		remaining := swaputil.Red("expired, waiting on daemon")
		if ms, ok := sh.cli.ApprovalRemainingMillis(req.RequestID); ok && ms > 0 {
			remaining = swaputil.Yellow(fmt.Sprintf("%ds left", ms/1000))
		}
		fmt.Fprintf(color.Output, "%d) %s %s %s\n",
			i+1, swaputil.White(req.RequestID), swaputil.Header(string(req.Kind)), remaining)
		for k, v := range req.Payload {
			fmt.Fprintf(color.Output, "     %s: %v\n", swaputil.Faint(k), v)
		}
	}
	return nil
}

func (sh *swapShell) Accept(textArgs []string) error {
	if len(textArgs) < 1 {
		return fmt.Errorf("need a request id, see %s", swaputil.White("approvals"))
	}
	if err := sh.cli.Approve(textArgs[0]); err != nil {
		return err
	}
	fmt.Fprintf(color.Output, "accepted %s\n", swaputil.White(textArgs[0]))
	return nil
}

func (sh *swapShell) Deny(textArgs []string) error {
	if len(textArgs) < 1 {
		return fmt.Errorf("need a request id, see %s", swaputil.White("approvals"))
	}
	if err := sh.cli.Deny(textArgs[0]); err != nil {
		return err
	}
	fmt.Fprintf(color.Output, "denied %s\n", swaputil.White(textArgs[0]))
	return nil
}

func (sh *swapShell) Tasks(textArgs []string) error {
	reps := sh.cli.BackgroundTasks()
	if len(reps) == 0 {
		fmt.Fprintf(color.Output, "no background work\n")
		return nil
	}

	for _, rep := range reps {
		progress := "working"
		p := rep.Status.Progress
		switch {
		case p.Fraction != nil:
			progress = fmt.Sprintf("%.0f%%", *p.Fraction*100)
		case p.CurrentIndex != nil && p.Total != nil && *p.Total > 0:
			progress = fmt.Sprintf("%d/%d", *p.CurrentIndex, *p.Total)
		case p.CurrentIndex != nil:
			progress = fmt.Sprintf("%d/?", *p.CurrentIndex)
		}

		count := ""
		if rep.LiveCount > 1 {
			count = swaputil.Faint(fmt.Sprintf(" (x%d)", rep.LiveCount))
		}
		fmt.Fprintf(color.Output, "%s %s%s\n",
			swaputil.Header(string(rep.Status.Kind)), progress, count)
	}
	return nil
}

func (sh *swapShell) Summaries(textArgs []string) error {
	sums, err := sh.cli.Summaries()
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		fmt.Fprintf(color.Output, "no cached swap summaries\n")
		return nil
	}

	for _, sum := range sums {
		started := time.Unix(sum.StartedAt, 0).Format("2006-01-02 15:04")
		fmt.Fprintf(color.Output, "%s %s %s sat, started %s\n",
			swaputil.SwapID(sum.SwapID),
			swaputil.StateColor(swapstate.StateName(sum.StateName)),
			swaputil.SatoshiColor(sum.BtcAmount), started)
	}
	return nil
}

func (sh *swapShell) Summary(textArgs []string) error {
	if len(textArgs) < 1 {
		return fmt.Errorf("need a swap id, see %s", swaputil.White("summaries"))
	}
	sum, err := sh.cli.Summary(textArgs[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(color.Output, "swap %s\n", swaputil.SwapID(sum.SwapID))
	fmt.Fprintf(color.Output, "  state:     %s\n", swaputil.StateColor(swapstate.StateName(sum.StateName)))
	fmt.Fprintf(color.Output, "  maker:     %s\n", sum.Maker)
	fmt.Fprintf(color.Output, "  btc:       %s sat\n", swaputil.SatoshiColor(sum.BtcAmount))
	fmt.Fprintf(color.Output, "  xmr:       %.6f\n", float64(sum.XmrAmount)/1e12)
	if sum.TxLockID != "" {
		fmt.Fprintf(color.Output, "  lock tx:   %s\n", sum.TxLockID)
	}
	fmt.Fprintf(color.Output, "  started:   %s\n", time.Unix(sum.StartedAt, 0).Format(time.RFC1123))
	if sum.CompletedAt != 0 {
		fmt.Fprintf(color.Output, "  completed: %s\n", time.Unix(sum.CompletedAt, 0).Format(time.RFC1123))
	}
	return nil
}
