package systems

import (
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/sim"
)

// InputSequencer numbers the local player's inputs. A message is produced
// only when the held keys change, each with a strictly increasing sequence.
type InputSequencer struct {
	seq  uint32
	last sim.Keys
}

// Update compares keys with the last sent set. It returns the input to send,
// or nil when nothing changed, and the sequence the frame belongs to.
func (s *InputSequencer) Update(keys sim.Keys, timestamp int64, dt float64) (*messages.Input, uint32) {
	if keys == s.last {
		return nil, s.seq
	}
	s.seq++
	s.last = keys
	in := messages.NewInput(messages.Keys{
		Left:   keys.Left,
		Right:  keys.Right,
		Jump:   keys.Jump,
		Attack: keys.Attack,
	}, s.seq, timestamp, dt)
	return in, s.seq
}

// Seq is the last sequence handed out.
func (s *InputSequencer) Seq() uint32 {
	return s.seq
}

// Reset starts a new connection's numbering.
func (s *InputSequencer) Reset() {
	s.seq = 0
	s.last = sim.Keys{}
}
