package messages

import (
	"fmt"
	"math"
)

// Connect, Disconnect and Heartbeat carry nothing but their type.
type Connect struct{ header }
type Disconnect struct{ header }
type Heartbeat struct{ header }

// Input is sent whenever the client's held keys change.
type Input struct {
	header
	Keys      Keys    `json:"keys"`
	Sequence  uint32  `json:"sequence"`  // strictly increasing per connection
	Timestamp int64   `json:"timestamp"` // client Unix ms
	DT        float64 `json:"dt"`        // client frame delta in seconds
}

type CollectCoin struct {
	header
	CoinIndex int   `json:"coinIndex"`
	Timestamp int64 `json:"timestamp"`
}

// SwordAttack reports a swing. The server ignores PlayerID and uses the
// sender's connection.
type SwordAttack struct {
	header
	PlayerID string `json:"playerId,omitempty"`
	Sword
}

func (*Connect) MessageType() string     { return TypeConnect }
func (*Disconnect) MessageType() string  { return TypeDisconnect }
func (*Heartbeat) MessageType() string   { return TypeHeartbeat }
func (*Input) MessageType() string       { return TypeInput }
func (*CollectCoin) MessageType() string { return TypeCollectCoin }
func (*SwordAttack) MessageType() string { return TypeSwordAttack }

func (*Connect) clientMessage()     {}
func (*Disconnect) clientMessage()  {}
func (*Heartbeat) clientMessage()   {}
func (*Input) clientMessage()       {}
func (*CollectCoin) clientMessage() {}
func (*SwordAttack) clientMessage() {}

func NewConnect() *Connect       { return &Connect{header{Type: TypeConnect}} }
func NewDisconnect() *Disconnect { return &Disconnect{header{Type: TypeDisconnect}} }
func NewHeartbeat() *Heartbeat   { return &Heartbeat{header{Type: TypeHeartbeat}} }

func NewInput(keys Keys, seq uint32, timestamp int64, dt float64) *Input {
	return &Input{header: header{Type: TypeInput}, Keys: keys, Sequence: seq, Timestamp: timestamp, DT: dt}
}

func NewCollectCoin(index int, timestamp int64) *CollectCoin {
	return &CollectCoin{header: header{Type: TypeCollectCoin}, CoinIndex: index, Timestamp: timestamp}
}

func NewSwordAttack(playerID string, sword Sword) *SwordAttack {
	return &SwordAttack{header: header{Type: TypeSwordAttack}, PlayerID: playerID, Sword: sword}
}

// maxInputDT bounds the frame delta a client may claim.
const maxInputDT = 1.0

func (m *Input) validate() error {
	if m.Sequence == 0 {
		return fmt.Errorf("input sequence must be positive")
	}
	if m.DT < 0 || m.DT > maxInputDT {
		return fmt.Errorf("input dt %v out of range", m.DT)
	}
	return nil
}

func (m *CollectCoin) validate() error {
	if m.CoinIndex < 0 {
		return fmt.Errorf("negative coin index %d", m.CoinIndex)
	}
	return nil
}

func (m *SwordAttack) validate() error {
	if m.SwordWidth <= 0 || m.SwordHeight <= 0 {
		return fmt.Errorf("empty sword box %vx%v", m.SwordWidth, m.SwordHeight)
	}
	for _, v := range []float64{m.SwordX, m.SwordY, m.SwordWidth, m.SwordHeight} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("non-finite sword coordinate")
		}
	}
	return nil
}
