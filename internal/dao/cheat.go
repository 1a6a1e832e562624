package dao

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cheatvault-go/internal/codetext"
	"github.com/cheatvault-go/internal/storage"
)

var (
	ErrCheatNotFound = errors.New("cheat not found")
	ErrCheatExists   = errors.New("cheat already exists")
)

// Cheat is one stored cheat entry. Codes are kept decrypted; rendering them
// back into an encrypted list is done on the way out.
type Cheat struct {
	Game      string          `json:"game"`
	Name      string          `json:"name"`
	Enabled   bool            `json:"enabled"`
	Codes     []codetext.Code `json:"codes"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CheatDAO handles cheat data access
type CheatDAO struct {
	store *storage.Store
}

// NewCheatDAO creates a new cheat DAO
func NewCheatDAO(store *storage.Store) *CheatDAO {
	return &CheatDAO{store: store}
}

// cheatKey builds the bucket key for a cheat. The slash cannot appear in
// either part; callers validate that at the API boundary.
func cheatKey(game, name string) string {
	return game + "/" + name
}

// Save stores a cheat, overwriting any previous version
func (d *CheatDAO) Save(cheat *Cheat) error {
	if cheat.Game == "" || cheat.Name == "" {
		return fmt.Errorf("cheat needs a game and a name")
	}
	cheat.UpdatedAt = time.Now().UTC()
	return d.store.SetJSON(storage.BucketCheats, cheatKey(cheat.Game, cheat.Name), cheat)
}

// Get retrieves a cheat
func (d *CheatDAO) Get(game, name string) (*Cheat, error) {
	var cheat Cheat
	if err := d.store.GetJSON(storage.BucketCheats, cheatKey(game, name), &cheat); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, ErrCheatNotFound
		}
		return nil, err
	}
	return &cheat, nil
}

// Delete removes a cheat
func (d *CheatDAO) Delete(game, name string) error {
	return d.store.Delete(storage.BucketCheats, cheatKey(game, name))
}

// ListGame returns all cheats stored for one game, sorted by name.
func (d *CheatDAO) ListGame(game string) ([]*Cheat, error) {
	all, err := d.store.GetAll(storage.BucketCheats)
	if err != nil {
		return nil, err
	}

	prefix := game + "/"
	var cheats []*Cheat
	for key, data := range all {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		var cheat Cheat
		if err := json.Unmarshal(data, &cheat); err != nil {
			return nil, fmt.Errorf("corrupt cheat %q: %w", key, err)
		}
		cheats = append(cheats, &cheat)
	}
	sort.Slice(cheats, func(i, j int) bool { return cheats[i].Name < cheats[j].Name })
	return cheats, nil
}

// ListGames returns the distinct game names that have cheats stored, sorted.
func (d *CheatDAO) ListGames() ([]string, error) {
	all, err := d.store.GetAll(storage.BucketCheats)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var games []string
	for key := range all {
		game, _, ok := strings.Cut(key, "/")
		if !ok || seen[game] {
			continue
		}
		seen[game] = true
		games = append(games, game)
	}
	sort.Strings(games)
	return games, nil
}
