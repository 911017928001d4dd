package messages

// Handshake is sent once, right after the socket is accepted.
type Handshake struct {
	header
	PlayerID            string              `json:"playerId"`
	MapData             []string            `json:"mapData"`
	EnemiesData         []EnemyState        `json:"enemiesData"`
	CollectiblesData    []CollectibleState  `json:"collectiblesData"`
	CharacterProperties CharacterProperties `json:"characterProperties"`
	Spawn               Vec                 `json:"spawn"`
	ServerTime          int64               `json:"serverTime"` // Unix ms
	TickPeriodMs        int64               `json:"tickPeriodMs"`
	WorldSeed           int64               `json:"worldSeed"`
}

// GameState is the full snapshot broadcast once per tick.
type GameState struct {
	header
	Players      map[string]PlayerState `json:"players"`
	Enemies      []EnemyState           `json:"enemies"`
	Collectibles []CollectibleState     `json:"collectibles"`
	ServerTime   int64                  `json:"serverTime"`
	Tick         uint64                 `json:"tick"`
}

type PlayerJoined struct {
	header
	PlayerID string       `json:"playerId"`
	Player   *PlayerState `json:"player,omitempty"`
}

type PlayerDisconnected struct {
	header
	PlayerID string `json:"playerId"`
}

// PlayerSwordAttack relays an accepted swing to every client.
type PlayerSwordAttack struct {
	header
	PlayerID string `json:"playerId"`
	Sword
}

type EnemyDefeated struct {
	header
	EnemyIndex int    `json:"enemyIndex"`
	PlayerID   string `json:"playerId"`
}

// PlayerHit tells clients a player took damage. Respawned is set when the
// hit came from falling out of the world and the player was reset to spawn.
type PlayerHit struct {
	header
	ID        string `json:"id"`
	Damage    int    `json:"damage"`
	Respawned bool   `json:"respawned,omitempty"`
}

func (*Handshake) MessageType() string          { return TypeHandshake }
func (*GameState) MessageType() string          { return TypeGameState }
func (*PlayerJoined) MessageType() string       { return TypePlayerJoined }
func (*PlayerDisconnected) MessageType() string { return TypePlayerDisconnected }
func (*PlayerSwordAttack) MessageType() string  { return TypePlayerSwordAttack }
func (*EnemyDefeated) MessageType() string      { return TypeEnemyDefeated }
func (*PlayerHit) MessageType() string          { return TypePlayerHit }

func (*Handshake) serverMessage()          {}
func (*GameState) serverMessage()          {}
func (*PlayerJoined) serverMessage()       {}
func (*PlayerDisconnected) serverMessage() {}
func (*PlayerSwordAttack) serverMessage()  {}
func (*EnemyDefeated) serverMessage()      {}
func (*PlayerHit) serverMessage()          {}

func NewHandshake(playerID string, mapData []string, enemies []EnemyState, collectibles []CollectibleState,
	props CharacterProperties, spawn Vec, serverTime, tickPeriodMs, worldSeed int64) *Handshake {
	return &Handshake{
		header:              header{Type: TypeHandshake},
		PlayerID:            playerID,
		MapData:             mapData,
		EnemiesData:         enemies,
		CollectiblesData:    collectibles,
		CharacterProperties: props,
		Spawn:               spawn,
		ServerTime:          serverTime,
		TickPeriodMs:        tickPeriodMs,
		WorldSeed:           worldSeed,
	}
}

func NewGameState(players map[string]PlayerState, enemies []EnemyState, collectibles []CollectibleState,
	serverTime int64, tick uint64) *GameState {
	return &GameState{
		header:       header{Type: TypeGameState},
		Players:      players,
		Enemies:      enemies,
		Collectibles: collectibles,
		ServerTime:   serverTime,
		Tick:         tick,
	}
}

func NewPlayerJoined(playerID string, player *PlayerState) *PlayerJoined {
	return &PlayerJoined{header: header{Type: TypePlayerJoined}, PlayerID: playerID, Player: player}
}

func NewPlayerDisconnected(playerID string) *PlayerDisconnected {
	return &PlayerDisconnected{header: header{Type: TypePlayerDisconnected}, PlayerID: playerID}
}

func NewPlayerSwordAttack(playerID string, sword Sword) *PlayerSwordAttack {
	return &PlayerSwordAttack{header: header{Type: TypePlayerSwordAttack}, PlayerID: playerID, Sword: sword}
}

func NewEnemyDefeated(enemyIndex int, playerID string) *EnemyDefeated {
	return &EnemyDefeated{header: header{Type: TypeEnemyDefeated}, EnemyIndex: enemyIndex, PlayerID: playerID}
}

func NewPlayerHit(id string, damage int, respawned bool) *PlayerHit {
	return &PlayerHit{header: header{Type: TypePlayerHit}, ID: id, Damage: damage, Respawned: respawned}
}
