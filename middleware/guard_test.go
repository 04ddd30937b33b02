package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
)

// No mongo runs under the tests, so the manager never reports ready and the
// guard must short-circuit every request.
func TestMongoGuardWhileDisconnected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/x", MongoGuard(), func(c *gin.Context) {
		reached = true
		OK(c, nil)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)

	if reached {
		t.Fatal("handler ran while the database was not ready")
	}
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	var body errs.CodeError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	if body.Code != errs.ErrInternal.Code {
		t.Fatalf("code = %d, want %d", body.Code, errs.ErrInternal.Code)
	}
}
