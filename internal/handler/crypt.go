package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cheatvault-go/internal/codebreaker"
	"github.com/cheatvault-go/internal/codetext"
	"github.com/cheatvault-go/internal/errors"
	"github.com/cheatvault-go/internal/trace"
)

// CryptHandler exposes the code processor over HTTP. Every request is one
// complete stream: a fresh engine is created per call and the lines are fed
// through it in order, so codes from different requests can never share
// cipher state.
type CryptHandler struct{}

// NewCryptHandler creates a new crypt handler
func NewCryptHandler() *CryptHandler {
	return &CryptHandler{}
}

// cryptRequest is the shared request body of the three crypt endpoints.
// Codes are text lines in the published "XXXXXXXX YYYYYYYY" form.
type cryptRequest struct {
	Mode  string   `json:"mode"` // "cold" (default) or "warm"
	Codes []string `json:"codes"`
}

func (r *cryptRequest) session() (*codebreaker.Codebreaker, error) {
	switch r.Mode {
	case "", "cold":
		return codebreaker.New(), nil
	case "warm":
		return codebreaker.NewV7(), nil
	default:
		return nil, errors.NewBadRequest("Unknown mode: " + r.Mode)
	}
}

func (r *cryptRequest) parse() ([]codetext.Code, error) {
	codes, err := codetext.ParseList(strings.Join(r.Codes, "\n"))
	if err != nil {
		return nil, errors.NewCodeListError("Invalid code list", err)
	}
	if len(codes) == 0 {
		return nil, errors.NewBadRequest("Empty code list")
	}
	return codes, nil
}

// Encrypt encrypts a code list with the session's active scheme
func (h *CryptHandler) Encrypt(c *gin.Context) {
	h.process(c, "encrypt", func(cb *codebreaker.Codebreaker, code codetext.Code) codetext.Code {
		addr, val := cb.EncryptCode(code.Addr, code.Val)
		return codetext.Code{Addr: addr, Val: val}
	})
}

// Decrypt decrypts a code list with the session's active scheme
func (h *CryptHandler) Decrypt(c *gin.Context) {
	h.process(c, "decrypt", func(cb *codebreaker.Codebreaker, code codetext.Code) codetext.Code {
		addr, val := cb.DecryptCode(code.Addr, code.Val)
		return codetext.Code{Addr: addr, Val: val}
	})
}

// AutoDecrypt decrypts a code list, inferring scheme and framing per line
func (h *CryptHandler) AutoDecrypt(c *gin.Context) {
	h.process(c, "auto-decrypt", func(cb *codebreaker.Codebreaker, code codetext.Code) codetext.Code {
		addr, val := cb.AutoDecryptCode(code.Addr, code.Val)
		return codetext.Code{Addr: addr, Val: val}
	})
}

func (h *CryptHandler) process(c *gin.Context, op string, apply func(*codebreaker.Codebreaker, codetext.Code) codetext.Code) {
	var req cryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, errors.NewBadRequestWithCause("Invalid request", err))
		return
	}

	cb, err := req.session()
	if err != nil {
		RespondError(c, err)
		return
	}

	codes, err := req.parse()
	if err != nil {
		RespondError(c, err)
		return
	}

	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = apply(cb, code).String()
	}

	log.Debug().
		Str("req_id", trace.GetRequestID(c.Request.Context())).
		Str("op", op).
		Int("lines", len(out)).
		Msg("Processed code list")

	RespondSuccess(c, gin.H{"codes": out})
}
