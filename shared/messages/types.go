// Package messages defines the wire protocol between server and client: a
// closed set of message types, each a JSON object tagged with "type" and sent
// as one websocket text frame.
package messages

// Server to client message types.
const (
	TypeHandshake          = "handshake"
	TypeGameState          = "gameState"
	TypePlayerJoined       = "playerJoined"
	TypePlayerDisconnected = "playerDisconnected"
	TypePlayerSwordAttack  = "playerSwordAttack"
	TypeEnemyDefeated      = "enemyDefeated"
	TypePlayerHit          = "playerHit"
)

// Client to server message types.
const (
	TypeConnect     = "connect"
	TypeDisconnect  = "disconnect"
	TypeInput       = "input"
	TypeCollectCoin = "collectCoin"
	TypeSwordAttack = "swordAttack"
	TypeHeartbeat   = "heartbeat"
)

// Message is implemented by every protocol message.
type Message interface {
	MessageType() string
	setType(string)
}

// ServerMessage is a message the server sends.
type ServerMessage interface {
	Message
	serverMessage()
}

// ClientMessage is a message the client sends.
type ClientMessage interface {
	Message
	clientMessage()
}

// header carries the "type" discriminator. Encode fills it in.
type header struct {
	Type string `json:"type"`
}

func (h *header) setType(t string) { h.Type = t }

// Keys is the held-key state carried by input messages.
type Keys struct {
	Left   bool `json:"left"`
	Right  bool `json:"right"`
	Jump   bool `json:"jump"`
	Attack bool `json:"attack"`
}

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerState is one player's entry in a snapshot.
type PlayerState struct {
	ID                    string  `json:"id"`
	X                     float64 `json:"x"`
	Y                     float64 `json:"y"`
	VX                    float64 `json:"vx"`
	VY                    float64 `json:"vy"`
	Width                 float64 `json:"width"`
	Height                float64 `json:"height"`
	FacingRight           bool    `json:"facingRight"`
	OnGround              bool    `json:"onGround"`
	Attacking             bool    `json:"attacking"`
	Frame                 int     `json:"frame"`
	LastProcessedInputSeq uint32  `json:"lastProcessedInputSeq"`
}

// EnemyState is one enemy's entry in a snapshot or handshake. Clients
// address enemies by their index in the array.
type EnemyState struct {
	Kind         string  `json:"kind"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	VX           float64 `json:"vx"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	LeftBound    float64 `json:"leftBound"`
	RightBound   float64 `json:"rightBound"`
	FacingRight  bool    `json:"facingRight"`
	Defeated     bool    `json:"defeated"`
	RespawnTimer float64 `json:"respawnTimer"`
	Frame        int     `json:"frame"`
}

// CollectibleState is one pickup's entry, also addressed by index.
type CollectibleState struct {
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Value     int     `json:"value"`
	Collected bool    `json:"collected"`
	Frame     int     `json:"frame"`
}

// CharacterProperties are the physics constants the client must predict with.
type CharacterProperties struct {
	Gravity         float64 `json:"gravity"`
	JumpSpeed       float64 `json:"jumpSpeed"`
	MinJumpVelocity float64 `json:"minJumpVelocity"`
	MoveSpeed       float64 `json:"moveSpeed"`
	MaxFallSpeed    float64 `json:"maxFallSpeed"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	TileSize        int     `json:"tileSize"`
}

// Sword is a swing's world-space box.
type Sword struct {
	SwordX      float64 `json:"swordX"`
	SwordY      float64 `json:"swordY"`
	SwordWidth  float64 `json:"swordWidth"`
	SwordHeight float64 `json:"swordHeight"`
	FacingRight bool    `json:"facingRight"`
}
