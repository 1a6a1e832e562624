package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cheatvault-go/internal/codebreaker"
	"github.com/cheatvault-go/internal/codetext"
	"github.com/cheatvault-go/internal/config"
	"github.com/cheatvault-go/internal/dao"
	"github.com/cheatvault-go/internal/errors"
	"github.com/cheatvault-go/internal/storage"
)

// CheatHandler handles the stored cheat library. Codes are persisted in
// decrypted form; encrypted input is normalized on the way in, and encrypted
// output is rendered on the way out, one fresh engine per list.
type CheatHandler struct {
	cheatDAO *dao.CheatDAO
	cache    *storage.Cache
}

// NewCheatHandler creates a new cheat handler
func NewCheatHandler(cfg *config.Config, cheatDAO *dao.CheatDAO) *CheatHandler {
	var cache *storage.Cache
	if cfg.Cache.Enable {
		expiration := cfg.Cache.Expiration
		if expiration <= 0 {
			expiration = 10
		}
		cache = storage.NewCache(time.Duration(expiration) * time.Minute)
	}
	return &CheatHandler{cheatDAO: cheatDAO, cache: cache}
}

// ListGames returns the games that have cheats stored
func (h *CheatHandler) ListGames(c *gin.Context) {
	games, err := h.cheatDAO.ListGames()
	if err != nil {
		RespondError(c, errors.NewInternalWithCause("Failed to list games", err))
		return
	}
	RespondSuccess(c, gin.H{"games": games})
}

// ListGame returns all cheats for one game
func (h *CheatHandler) ListGame(c *gin.Context) {
	game := c.Param("game")
	cheats, err := h.cheatDAO.ListGame(game)
	if err != nil {
		RespondError(c, errors.NewInternalWithCause("Failed to list cheats", err))
		return
	}
	RespondSuccess(c, gin.H{"game": game, "cheats": cheats})
}

// GetCheat returns one cheat; ?format=encrypted renders the codes through a
// fresh cold-start session instead of returning them decrypted.
func (h *CheatHandler) GetCheat(c *gin.Context) {
	game := c.Param("game")
	name := c.Param("name")
	format := c.DefaultQuery("format", "decrypted")

	if format != "decrypted" && format != "encrypted" {
		RespondError(c, errors.NewBadRequest("Unknown format: "+format))
		return
	}

	cacheKey := game + "/" + name + "?" + format
	if h.cache != nil {
		if cached, ok := h.cache.Get(cacheKey); ok {
			RespondSuccess(c, cached)
			return
		}
	}

	cheat, err := h.cheatDAO.Get(game, name)
	if err != nil {
		if err == dao.ErrCheatNotFound {
			RespondError(c, errors.NewNotFound("Cheat not found"))
			return
		}
		RespondError(c, errors.NewInternalWithCause("Failed to load cheat", err))
		return
	}

	codes := cheat.Codes
	if format == "encrypted" {
		cb := codebreaker.New()
		codes = make([]codetext.Code, len(cheat.Codes))
		for i, code := range cheat.Codes {
			addr, val := cb.EncryptCode(code.Addr, code.Val)
			codes[i] = codetext.Code{Addr: addr, Val: val}
		}
	}

	lines := make([]string, len(codes))
	for i, code := range codes {
		lines[i] = code.String()
	}

	data := gin.H{
		"game":    cheat.Game,
		"name":    cheat.Name,
		"enabled": cheat.Enabled,
		"format":  format,
		"codes":   lines,
	}
	if h.cache != nil {
		h.cache.Set(cacheKey, data)
	}
	RespondSuccess(c, data)
}

// SaveCheat stores a cheat. Encrypted input is auto-decrypted before it is
// persisted, so the store only ever holds plaintext codes.
func (h *CheatHandler) SaveCheat(c *gin.Context) {
	game := c.Param("game")
	name := c.Param("name")
	if strings.Contains(game, "/") || strings.Contains(name, "/") {
		RespondError(c, errors.NewBadRequest("Game and name must not contain '/'"))
		return
	}

	var req struct {
		Enabled   bool     `json:"enabled"`
		Encrypted bool     `json:"encrypted"`
		Codes     []string `json:"codes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, errors.NewBadRequestWithCause("Invalid request", err))
		return
	}

	codes, err := codetext.ParseList(strings.Join(req.Codes, "\n"))
	if err != nil {
		RespondError(c, errors.NewCodeListError("Invalid code list", err))
		return
	}
	if len(codes) == 0 {
		RespondError(c, errors.NewBadRequest("Empty code list"))
		return
	}

	if req.Encrypted {
		cb := codebreaker.New()
		for i, code := range codes {
			addr, val := cb.AutoDecryptCode(code.Addr, code.Val)
			codes[i] = codetext.Code{Addr: addr, Val: val}
		}
	}

	cheat := &dao.Cheat{
		Game:    game,
		Name:    name,
		Enabled: req.Enabled,
		Codes:   codes,
	}
	if err := h.cheatDAO.Save(cheat); err != nil {
		RespondError(c, errors.NewInternalWithCause("Failed to save cheat", err))
		return
	}

	h.invalidate(game, name)
	RespondSuccessMsg(c, "cheat saved")
}

// DeleteCheat removes a cheat
func (h *CheatHandler) DeleteCheat(c *gin.Context) {
	game := c.Param("game")
	name := c.Param("name")

	if err := h.cheatDAO.Delete(game, name); err != nil {
		RespondError(c, errors.NewInternalWithCause("Failed to delete cheat", err))
		return
	}

	h.invalidate(game, name)
	RespondSuccessMsg(c, "cheat deleted")
}

func (h *CheatHandler) invalidate(game, name string) {
	if h.cache == nil {
		return
	}
	h.cache.DeletePrefix(game + "/" + name + "?")
}
