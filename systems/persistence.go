package systems

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

const profileKey = "profile"

// SavedProfile is the client-side record kept between runs. World state is
// never persisted; only this player's own bookkeeping.
type SavedProfile struct {
	BestScore  int    `json:"bestScore"`
	LastServer string `json:"lastServer"`
	GamesTotal int    `json:"gamesTotal"`
}

// ProfileStore loads and saves the profile blob.
type ProfileStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// OpenProfileStore opens the gdata-backed store for appName.
func OpenProfileStore(appName string) (ProfileStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open persistence: %w", err)
	}
	return m, nil
}

// LoadProfile returns the saved profile, or a zero profile when nothing has
// been saved yet or the blob can't be parsed.
func LoadProfile(store ProfileStore) SavedProfile {
	var p SavedProfile
	if store == nil {
		return p
	}

	data, err := store.LoadItem(profileKey)
	if err != nil {
		log.Printf("Warning: Could not load profile: %v", err)
		return p
	}
	if len(data) == 0 {
		return p
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Warning: Could not parse saved profile: %v", err)
		return SavedProfile{}
	}
	return p
}

// SaveProfile writes p to store.
func SaveProfile(store ProfileStore, p SavedProfile) error {
	if store == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}
	if err := store.SaveItem(profileKey, data); err != nil {
		log.Printf("Warning: Could not save profile: %v", err)
		return err
	}
	return nil
}

// RecordScore folds a finished session into the profile, reporting whether
// it set a new best.
func (p *SavedProfile) RecordScore(score int, server string) bool {
	p.GamesTotal++
	if server != "" {
		p.LastServer = server
	}
	if score > p.BestScore {
		p.BestScore = score
		return true
	}
	return false
}

// MemoryStore is a ProfileStore that keeps items in memory.
type MemoryStore map[string][]byte

func (m MemoryStore) LoadItem(key string) ([]byte, error) {
	return m[key], nil
}

func (m MemoryStore) SaveItem(key string, data []byte) error {
	m[key] = append([]byte(nil), data...)
	return nil
}
