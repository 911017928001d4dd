package systems

import (
	"log"

	"github.com/imdvls/Pixelknight/network"
	"github.com/imdvls/Pixelknight/shared/collision"
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/sim"
)

// correctionLogThreshold is the prediction error, in world units, above
// which a reconciliation is logged.
const correctionLogThreshold = 4.0

// NetPrediction owns client-side prediction state for the local player.
type NetPrediction struct {
	Pending network.PendingInputs

	// Local motion state, mirroring the server's per-player motion
	Motion      sim.PlayerMotion
	Initialized bool // true after the first server state has been applied

	// Grid is the collision world for full prediction steps
	Grid collision.Grid

	// LastError is the distance between our prediction and the server at
	// the most recent acknowledged input.
	LastError float64
}

func NewNetPrediction(grid collision.Grid) *NetPrediction {
	return &NetPrediction{Grid: grid}
}

// PredictStep runs the full collision-aware step the server runs and queues
// the frame for reconciliation under seq, the last sequence sent.
func (p *NetPrediction) PredictStep(body *sim.Body, keys sim.Keys, seq uint32, timestamp int64, dt float64) collision.Result {
	res := sim.StepPlayer(p.Grid, body, &p.Motion, keys, dt)
	p.Pending.Push(network.PendingInput{
		Sequence:        seq,
		Keys:            keys,
		ClientTimestamp: timestamp,
		DT:              dt,
		PredictedX:      body.X,
		PredictedY:      body.Y,
	})
	return res
}

// Reconcile snaps body to the server's state for the local player, drops
// acknowledged inputs and replays the rest without collision.
func (p *NetPrediction) Reconcile(body *sim.Body, server messages.PlayerState) {
	if acked, ok := p.Pending.Ack(server.LastProcessedInputSeq); ok {
		p.LastError = network.PredictionError(acked, server.X, server.Y)
		if p.LastError > correctionLogThreshold {
			log.Printf("[netprediction] correcting %.1f units at seq %d", p.LastError, acked.Sequence)
		}
		p.Motion.JumpHeld = acked.Keys.Jump
	}

	body.X, body.Y = server.X, server.Y
	body.VX, body.VY = server.VX, server.VY
	body.W, body.H = server.Width, server.Height
	p.Motion.OnGround = server.OnGround
	p.Initialized = true

	for _, in := range p.Pending.Pending() {
		sim.ReplaySimple(body, &p.Motion, in.Keys, in.DT)
	}
}

// Reset forgets all prediction state, for a new connection.
func (p *NetPrediction) Reset(grid collision.Grid) {
	p.Pending.Reset()
	p.Motion = sim.PlayerMotion{}
	p.Initialized = false
	p.LastError = 0
	p.Grid = grid
}
