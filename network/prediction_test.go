package network

import (
	"math"
	"testing"
)

func TestPendingInputsAckTrims(t *testing.T) {
	var p PendingInputs
	for _, seq := range []uint32{1, 1, 2, 3, 3, 3, 4} {
		p.Push(PendingInput{Sequence: seq, DT: 0.016})
	}

	last, ok := p.Ack(3)
	if !ok || last.Sequence != 3 {
		t.Fatalf("expected last acked seq 3, got %+v ok=%v", last, ok)
	}
	if p.Len() != 1 || p.Pending()[0].Sequence != 4 {
		t.Fatalf("expected only seq 4 pending, got %+v", p.Pending())
	}

	if _, ok := p.Ack(3); ok {
		t.Fatalf("re-acking must not drop anything")
	}
	for _, in := range p.Pending() {
		if in.Sequence <= 3 {
			t.Fatalf("acknowledged input %d still pending", in.Sequence)
		}
	}
}

func TestPendingInputsAckAll(t *testing.T) {
	var p PendingInputs
	p.Push(PendingInput{Sequence: 1})
	p.Push(PendingInput{Sequence: 2})

	p.Ack(10)
	if p.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", p.Len())
	}
}

func TestPendingInputsBounded(t *testing.T) {
	var p PendingInputs
	for i := 0; i < maxPending+10; i++ {
		p.Push(PendingInput{Sequence: uint32(i + 1)})
	}
	if p.Len() != maxPending {
		t.Fatalf("expected %d pending, got %d", maxPending, p.Len())
	}
	if p.Pending()[0].Sequence != 11 {
		t.Fatalf("expected oldest entries dropped, first is %d", p.Pending()[0].Sequence)
	}
}

func TestPredictionError(t *testing.T) {
	got := PredictionError(PendingInput{PredictedX: 3, PredictedY: 4}, 0, 0)
	if math.Abs(got-5) > 1e-9 {
		t.Fatalf("expected 5, got %v", got)
	}
}
