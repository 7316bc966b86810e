package timelock

import "github.com/xmrbtc/swapmon/consts"

// Phase labels one of the three countdown segments.
type Phase string

const (
	PhaseNormal Phase = "Normal" // before the cancel boundary
	PhaseRefund Phase = "Refund" // refund window, between cancel and punish
	PhaseDanger Phase = "Danger" // past the punish boundary
)

// Segment is one stretch of the timeline.  Duration 0 marks a segment with
// no width; the trailing danger segment is open-ended and also has 0.
type Segment struct {
	Phase      Phase
	StartBlock uint32
	Duration   uint32
}

// Timeline lays out the three segments for the given offsets.
func Timeline(cancelOffset, punishOffset uint32) []Segment {
	return []Segment{
		{Phase: PhaseNormal, StartBlock: 0, Duration: cancelOffset},
		{Phase: PhaseRefund, StartBlock: cancelOffset, Duration: punishOffset},
		{Phase: PhaseDanger, StartBlock: cancelOffset + punishOffset, Duration: 0},
	}
}

// ActiveSegment picks the highest-indexed segment whose start is at or
// before the absolute block.  A boundary block belongs to the later segment,
// which also handles zero-width segments created by punishOffset == 0.
func ActiveSegment(segments []Segment, absoluteBlock uint32) int {
	active := 0
	for i, seg := range segments {
		if seg.StartBlock <= absoluteBlock {
			active = i
		}
	}
	return active
}

// SegmentProgress is how far through the segment the absolute block is,
// clamped to [consts.MinVisibleFraction, 1] so indicators never collapse to
// zero width.  Zero-duration segments are fully elapsed the moment they are
// reached.
func SegmentProgress(seg Segment, absoluteBlock uint32) float64 {
	if absoluteBlock < seg.StartBlock {
		return consts.MinVisibleFraction
	}
	if seg.Duration == 0 {
		return 1
	}
	frac := float64(absoluteBlock-seg.StartBlock) / float64(seg.Duration)
	if frac < consts.MinVisibleFraction {
		return consts.MinVisibleFraction
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// View is the render-ready summary of a swap's timelock position.
type View struct {
	AbsoluteBlock uint32
	Segments      []Segment
	ActiveIndex   int
	ActivePhase   Phase
	Progress      float64
}

// Describe computes the full timeline view for a status.
func Describe(status Status, cancelOffset, punishOffset uint32) View {
	segments := Timeline(cancelOffset, punishOffset)
	abs := status.AbsoluteBlock(cancelOffset, punishOffset)
	idx := ActiveSegment(segments, abs)
	return View{
		AbsoluteBlock: abs,
		Segments:      segments,
		ActiveIndex:   idx,
		ActivePhase:   segments[idx].Phase,
		Progress:      SegmentProgress(segments[idx], abs),
	}
}
