package network

import (
	"math"

	"github.com/imdvls/Pixelknight/shared/sim"
)

// maxPending bounds the queue if the server stops acknowledging. Oldest
// entries go first.
const maxPending = 600

// PendingInput is one frame's input awaiting server acknowledgement, with
// the position prediction produced after applying it.
type PendingInput struct {
	Sequence        uint32 // last input sequence sent when this frame ran
	Keys            sim.Keys
	ClientTimestamp int64
	DT              float64

	PredictedX float64
	PredictedY float64
}

// PendingInputs is the FIFO of unacknowledged frames. Sequences are
// non-decreasing: several frames share a sequence while keys don't change.
type PendingInputs struct {
	items []PendingInput
}

func (p *PendingInputs) Push(in PendingInput) {
	if len(p.items) >= maxPending {
		p.items = p.items[1:]
	}
	p.items = append(p.items, in)
}

// Ack drops every input with Sequence <= seq and returns the last one
// dropped, if any.
func (p *PendingInputs) Ack(seq uint32) (PendingInput, bool) {
	n := 0
	for n < len(p.items) && p.items[n].Sequence <= seq {
		n++
	}
	if n == 0 {
		return PendingInput{}, false
	}
	last := p.items[n-1]
	p.items = append(p.items[:0], p.items[n:]...)
	return last, true
}

// Pending returns the unacknowledged inputs in order. The slice is only
// valid until the next Push or Ack.
func (p *PendingInputs) Pending() []PendingInput {
	return p.items
}

func (p *PendingInputs) Len() int {
	return len(p.items)
}

func (p *PendingInputs) Reset() {
	p.items = p.items[:0]
}

// PredictionError is the distance between a prediction and the server's
// position for the same input.
func PredictionError(in PendingInput, serverX, serverY float64) float64 {
	dx := in.PredictedX - serverX
	dy := in.PredictedY - serverY
	return math.Sqrt(dx*dx + dy*dy)
}
