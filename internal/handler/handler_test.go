package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cheatvault-go/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestRespondError tests error response helper
func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{
			name:       "bad request",
			err:        errors.NewBadRequest("invalid input"),
			wantStatus: http.StatusBadRequest,
			wantCode:   400,
		},
		{
			name:       "not found",
			err:        errors.NewNotFound("resource not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   404,
		},
		{
			name:       "code list error",
			err:        errors.NewCodeListError("bad line", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   510,
		},
		{
			name:       "internal error",
			err:        errors.NewInternal("something broke"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}

			if resp.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Code, tt.wantCode)
			}
		})
	}
}

// TestRespondSuccess tests success response helper
func TestRespondSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondSuccess(c, map[string]string{"key": "value"})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp.Code != 0 {
		t.Errorf("code = %d, want 0", resp.Code)
	}

	if resp.Data == nil {
		t.Error("data should not be nil")
	}
}

// TestRespondSuccessMsg tests success with message
func TestRespondSuccessMsg(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondSuccessMsg(c, "operation successful")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp.Msg != "operation successful" {
		t.Errorf("msg = %q, want %q", resp.Msg, "operation successful")
	}
}

func newCryptRouter() *gin.Engine {
	h := NewCryptHandler()
	r := gin.New()
	r.POST("/encrypt", h.Encrypt)
	r.POST("/decrypt", h.Decrypt)
	r.POST("/auto", h.AutoDecrypt)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func responseCodes(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp struct {
		Code int `json:"code"`
		Data struct {
			Codes []string `json:"codes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Code != 0 {
		t.Fatalf("code = %d, want 0 (body: %s)", resp.Code, w.Body.String())
	}
	return resp.Data.Codes
}

// TestCryptEncrypt tests the encrypt endpoint with a known pair
func TestCryptEncrypt(t *testing.T) {
	r := newCryptRouter()

	w := postJSON(t, r, "/encrypt", map[string]interface{}{
		"codes": []string{"2043AFCC 2411FFFF"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	codes := responseCodes(t, w)
	if len(codes) != 1 || codes[0] != "2AFF014C 2411FFFF" {
		t.Errorf("codes = %v, want [2AFF014C 2411FFFF]", codes)
	}
}

// TestCryptDecrypt tests the decrypt endpoint with a known pair
func TestCryptDecrypt(t *testing.T) {
	r := newCryptRouter()

	w := postJSON(t, r, "/decrypt", map[string]interface{}{
		"codes": []string{"2AFF014C 2411FFFF"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	codes := responseCodes(t, w)
	if len(codes) != 1 || codes[0] != "2043AFCC 2411FFFF" {
		t.Errorf("codes = %v, want [2043AFCC 2411FFFF]", codes)
	}
}

// TestCryptAutoDecrypt tests per-line scheme detection
func TestCryptAutoDecrypt(t *testing.T) {
	r := newCryptRouter()

	w := postJSON(t, r, "/auto", map[string]interface{}{
		"codes": []string{
			"2AFF014C 2411FFFF", // v1 encrypted
			"10C12345 00001234", // raw, passes through
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	codes := responseCodes(t, w)
	want := []string{"2043AFCC 2411FFFF", "10C12345 00001234"}
	if len(codes) != len(want) {
		t.Fatalf("got %d codes, want %d", len(codes), len(want))
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("codes[%d] = %q, want %q", i, codes[i], want[i])
		}
	}
}

// TestCryptAutoDecryptRawBeefcode tests that a plaintext activation line
// passes through untouched and does not flip the session into keyed mode
func TestCryptAutoDecryptRawBeefcode(t *testing.T) {
	r := newCryptRouter()

	w := postJSON(t, r, "/auto", map[string]interface{}{
		"codes": []string{
			"BEEFC0DE 00000000",
			"10C12345 00001234",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	codes := responseCodes(t, w)
	want := []string{"BEEFC0DE 00000000", "10C12345 00001234"}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("codes[%d] = %q, want %q", i, codes[i], want[i])
		}
	}
}

// TestCryptRoundTripWarm tests that warm encrypt and warm decrypt invert
func TestCryptRoundTripWarm(t *testing.T) {
	r := newCryptRouter()
	input := []string{
		"2043AFCC 2411FFFF",
		"10C12345 00001234",
		"D00F13C4 0000FFFE",
	}

	w := postJSON(t, r, "/encrypt", map[string]interface{}{
		"mode":  "warm",
		"codes": input,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("encrypt status = %d (body: %s)", w.Code, w.Body.String())
	}
	encrypted := responseCodes(t, w)

	w = postJSON(t, r, "/decrypt", map[string]interface{}{
		"mode":  "warm",
		"codes": encrypted,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("decrypt status = %d (body: %s)", w.Code, w.Body.String())
	}
	decrypted := responseCodes(t, w)

	for i := range input {
		if decrypted[i] != input[i] {
			t.Errorf("round trip line %d = %q, want %q", i, decrypted[i], input[i])
		}
	}
}

// TestCryptBadRequests tests input validation on the crypt endpoints
func TestCryptBadRequests(t *testing.T) {
	r := newCryptRouter()

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:       "unknown mode",
			body:       map[string]interface{}{"mode": "hot", "codes": []string{"2043AFCC 2411FFFF"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty code list",
			body:       map[string]interface{}{"codes": []string{}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed line",
			body:       map[string]interface{}{"codes": []string{"2043AFCC"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/encrypt", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
