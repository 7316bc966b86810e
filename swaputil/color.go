package swaputil

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/xmrbtc/swapmon/swapstate"
	"github.com/xmrbtc/swapmon/timelock"
)

var (
	White  = color.New(color.FgHiWhite).SprintFunc()
	Green  = color.New(color.FgHiGreen).SprintFunc()
	Yellow = color.New(color.FgHiYellow).SprintFunc()
	Red    = color.New(color.FgHiRed).SprintFunc()
	Faint  = color.New(color.Faint).SprintFunc()

	Header = color.New(color.FgHiCyan).SprintFunc()
	Prompt = color.New(color.FgHiYellow).SprintFunc()
	SwapID = color.New(color.FgMagenta).SprintFunc()
	BTC    = color.New(color.FgHiWhite).Add(color.Underline).SprintFunc()
)

// ReqColor renders required command arguments for help text.
func ReqColor(required ...interface{}) string {
	var s string
	for i := 0; i < len(required); i++ {
		s += " <"
		s += White(required[i])
		s += ">"
	}
	return s
}

// OptColor renders optional command arguments for help text.
func OptColor(optional ...interface{}) string {
	var s string
	var tail string
	for i := 0; i < len(optional); i++ {
		s += " [<"
		s += White(optional[i])
		s += ">"
		tail += "]"
	}
	return s + tail
}

// StateColor colors a protocol state by what it means for the user's money:
// green for done-and-fine, red for punished, yellow for anything still in
// flight.
func StateColor(s swapstate.StateName) string {
	if !swapstate.Known(s) {
		return White(string(s))
	}
	if s == swapstate.BtcPunished {
		return Red(string(s))
	}
	if swapstate.IsCompleted(s) {
		return Green(string(s))
	}
	return Yellow(string(s))
}

// PhaseColor colors a timelock phase.
func PhaseColor(p timelock.Phase) string {
	switch p {
	case timelock.PhaseNormal:
		return Green(string(p))
	case timelock.PhaseRefund:
		return Yellow(string(p))
	case timelock.PhaseDanger:
		return Red(string(p))
	}
	return White(string(p))
}

// SatoshiColor renders a satoshi amount with the whole-coin part
// underlined, faint below 1 mBTC.
func SatoshiColor(value int64) string {
	var mBTC = value / 100000
	if mBTC < 1 {
		return Faint(value)
	}
	var sat = value - (mBTC * 100000)
	var btc = mBTC / 1000
	mBTC -= (btc * 1000)
	if btc < 1 {
		return fmt.Sprintf("%d%s", mBTC, Faint(fmt.Sprintf("%05d", sat)))
	}
	return fmt.Sprintf("%s%03d%s", BTC(btc), mBTC, Faint(fmt.Sprintf("%05d", sat)))
}
