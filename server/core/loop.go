package core

import (
	"log"
	"sync"
	"time"

	"github.com/imdvls/Pixelknight/shared/messages"
)

// commandBuffer is how many commands may queue between two ticks before
// sessions block on Submit.
const commandBuffer = 1024

// Outbox delivers encoded frames to sessions. Delivery is best effort.
type Outbox interface {
	Send(playerID string, frame []byte)
	Broadcast(frame []byte)
	Close(playerID string, reason string)
}

// GameLoop is the single goroutine that owns WorldState. Sessions hand it
// commands through Submit; everything else happens inside Tick.
type GameLoop struct {
	state    *WorldState
	out      Outbox
	commands chan Command
	period   time.Duration
	timeout  time.Duration
	logger   *log.Logger

	// now is swapped out by tests to drive eviction.
	now func() time.Time

	stopOnce sync.Once
	stopChan chan struct{}
}

func NewGameLoop(state *WorldState, out Outbox, period, timeout time.Duration, logger *log.Logger) *GameLoop {
	if logger == nil {
		logger = log.Default()
	}
	return &GameLoop{
		state:    state,
		out:      out,
		commands: make(chan Command, commandBuffer),
		period:   period,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Submit queues a command for the next tick. It gives up once the loop has
// stopped.
func (g *GameLoop) Submit(cmd Command) {
	select {
	case g.commands <- cmd:
	case <-g.stopChan:
	}
}

func (g *GameLoop) Run() {
	ticker := time.NewTicker(g.period)
	defer ticker.Stop()

	g.logger.Printf("[loop] started, tick period %s", g.period)

	for {
		select {
		case <-g.stopChan:
			g.logger.Println("[loop] stopped")
			return
		case <-ticker.C:
			g.Tick()
		}
	}
}

func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() { close(g.stopChan) })
}

// Tick runs one authoritative step: queued commands, eviction, simulation,
// then events and the snapshot go out.
func (g *GameLoop) Tick() {
	now := g.now()
	g.drain(now)
	g.evict(now)

	g.state.Step(g.period.Seconds())

	for _, ev := range g.state.DrainEvents() {
		g.broadcast(ev)
	}
	g.broadcast(g.state.Snapshot(now))
}

// drain applies every queued command in arrival order.
func (g *GameLoop) drain(now time.Time) {
	for {
		select {
		case cmd := <-g.commands:
			g.apply(cmd, now)
		default:
			return
		}
	}
}

func (g *GameLoop) apply(cmd Command, now time.Time) {
	switch cmd.Kind {
	case CommandJoin:
		g.join(cmd.PlayerID, now)
	case CommandLeave:
		g.leave(cmd.PlayerID, "left")
	case CommandMessage:
		g.handle(cmd.PlayerID, cmd.Msg, now)
	}
}

func (g *GameLoop) join(id string, now time.Time) {
	if g.state.HasPlayer(id) {
		return
	}
	player := g.state.AddPlayer(id, now)
	g.send(id, g.state.Handshake(id, now, g.period))
	g.broadcast(messages.NewPlayerJoined(id, &player))
	g.logger.Printf("[loop] player %s joined (%d online)", id, g.state.PlayerCount())
}

func (g *GameLoop) leave(id, reason string) {
	if g.state.RemovePlayer(id) {
		g.broadcast(messages.NewPlayerDisconnected(id))
		g.logger.Printf("[loop] player %s removed: %s", id, reason)
	}
	g.out.Close(id, reason)
}

func (g *GameLoop) handle(id string, msg messages.ClientMessage, now time.Time) {
	if !g.state.HasPlayer(id) {
		return
	}
	g.state.Touch(id, now)

	switch m := msg.(type) {
	case *messages.Input:
		g.state.ApplyInput(id, m)
	case *messages.CollectCoin:
		g.state.CollectCoin(id, m.CoinIndex)
	case *messages.SwordAttack:
		if !g.state.SwordAttack(id, m) {
			g.logger.Printf("[loop] player %s: sword attack rejected", id)
		}
	case *messages.Disconnect:
		g.leave(id, "disconnect requested")
	case *messages.Connect, *messages.Heartbeat:
	}
}

func (g *GameLoop) evict(now time.Time) {
	for _, id := range g.state.Stale(now, g.timeout) {
		g.leave(id, "inactive")
	}
}

func (g *GameLoop) encode(m messages.Message) []byte {
	frame, err := messages.Encode(m)
	if err != nil {
		g.logger.Printf("[loop] %v", err)
		return nil
	}
	return frame
}

func (g *GameLoop) send(id string, m messages.Message) {
	if frame := g.encode(m); frame != nil {
		g.out.Send(id, frame)
	}
}

func (g *GameLoop) broadcast(m messages.Message) {
	if frame := g.encode(m); frame != nil {
		g.out.Broadcast(frame)
	}
}
