package timelock

import (
	"encoding/json"
	"fmt"
)

// Wire shape of a timelock status inside daemon events:
//   {"type":"none","blocks_left":72}
//   {"type":"cancel","blocks_left":12}
//   {"type":"punish"}
type statusEnvelope struct {
	Type       string `json:"type"`
	BlocksLeft *int64 `json:"blocks_left,omitempty"`
}

// StatusFromJSON decodes a tagged timelock status.  Negative block counts
// are rejected here so the arithmetic above never sees them.
func StatusFromJSON(raw []byte) (Status, error) {
	var env statusEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	blocksLeft := func() (uint32, error) {
		if env.BlocksLeft == nil {
			return 0, fmt.Errorf("timelock status %q missing blocks_left", env.Type)
		}
		if *env.BlocksLeft < 0 {
			return 0, fmt.Errorf("timelock status %q has negative blocks_left %d", env.Type, *env.BlocksLeft)
		}
		return uint32(*env.BlocksLeft), nil
	}

	switch env.Type {
	case "none":
		n, err := blocksLeft()
		if err != nil {
			return nil, err
		}
		return None{BlocksLeft: n}, nil
	case "cancel":
		n, err := blocksLeft()
		if err != nil {
			return nil, err
		}
		return Cancel{BlocksLeft: n}, nil
	case "punish":
		return Punish{}, nil
	}
	return nil, fmt.Errorf("unknown timelock status type %q", env.Type)
}

// StatusToJSON encodes a status back into its wire shape.
func StatusToJSON(status Status) ([]byte, error) {
	env := statusEnvelope{Type: status.Kind()}
	switch s := status.(type) {
	case None:
		n := int64(s.BlocksLeft)
		env.BlocksLeft = &n
	case Cancel:
		n := int64(s.BlocksLeft)
		env.BlocksLeft = &n
	case Punish:
	default:
		return nil, fmt.Errorf("unknown timelock status variant %T", status)
	}
	return json.Marshal(env)
}
