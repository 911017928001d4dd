package systems

import (
	"math"
	"testing"

	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/netconfig"
	"github.com/imdvls/Pixelknight/shared/sim"
)

const eps = 1e-6

func TestPredictStepMatchesServerStep(t *testing.T) {
	grid := leveldata.NewGrid(40, 40, netconfig.TileSize)
	p := NewNetPrediction(grid)
	body := sim.NewPlayerBody(leveldata.SpawnPoint{X: 50, Y: 100})

	p.PredictStep(&body, sim.Keys{Right: true}, 1, 0, 0.1)
	if math.Abs(body.X-65) > eps || math.Abs(body.Y-104) > eps {
		t.Fatalf("expected (65, 104), got (%v, %v)", body.X, body.Y)
	}
	if p.Pending.Len() != 1 || p.Pending.Pending()[0].Sequence != 1 {
		t.Fatalf("expected one pending input with seq 1, got %+v", p.Pending.Pending())
	}
}

func TestReconcileReplaysUnacknowledged(t *testing.T) {
	grid := leveldata.NewGrid(40, 40, netconfig.TileSize)
	p := NewNetPrediction(grid)
	body := sim.NewPlayerBody(leveldata.SpawnPoint{X: 50, Y: 100})

	p.PredictStep(&body, sim.Keys{Right: true}, 1, 0, 0.1)
	p.PredictStep(&body, sim.Keys{Left: true}, 2, 0, 0.1)
	p.PredictStep(&body, sim.Keys{Left: true}, 2, 0, 0.1)

	p.Reconcile(&body, messages.PlayerState{
		X: 65, Y: 104, VX: 150, VY: 80, Width: 12, Height: 16,
		LastProcessedInputSeq: 1,
	})

	if p.LastError > eps {
		t.Fatalf("prediction matched the server, error %v", p.LastError)
	}
	if p.Pending.Len() != 2 {
		t.Fatalf("expected 2 inputs left to replay, got %d", p.Pending.Len())
	}
	for _, in := range p.Pending.Pending() {
		if in.Sequence <= 1 {
			t.Fatalf("acknowledged input %d was kept", in.Sequence)
		}
	}
	if math.Abs(body.X-35) > eps || math.Abs(body.Y-136) > eps {
		t.Fatalf("expected replay to (35, 136), got (%v, %v)", body.X, body.Y)
	}
	if !p.Initialized {
		t.Fatalf("reconcile must mark prediction initialized")
	}
}

func TestReconcileOverwritesGrounding(t *testing.T) {
	p := NewNetPrediction(leveldata.NewGrid(10, 10, netconfig.TileSize))
	body := sim.NewPlayerBody(leveldata.SpawnPoint{X: 0, Y: 0})

	p.Reconcile(&body, messages.PlayerState{X: 20, Y: 30, OnGround: true, Width: 12, Height: 16})
	if body.X != 20 || body.Y != 30 || !p.Motion.OnGround {
		t.Fatalf("expected hard overwrite, got %+v onGround=%v", body, p.Motion.OnGround)
	}
}
