package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"blackjack-platform/backend/internal/auth"
	"blackjack-platform/backend/internal/db"
	"blackjack-platform/backend/internal/models"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.New(db.Config{Driver: "sqlite", DBName: "file::memory:?cache=shared"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		database.Exec("DELETE FROM users")
		database.Exec("DELETE FROM game_sessions")
	})

	authSvc := auth.NewService("test-secret")

	r := gin.New()
	r.POST("/api/auth/register", func(c *gin.Context) {
		HandleRegister(c, database, authSvc)
	})
	r.POST("/api/auth/login", func(c *gin.Context) {
		HandleLogin(c, database, authSvc)
	})
	authorized := r.Group("/", AuthMiddleware(authSvc))
	authorized.GET("/api/user", func(c *gin.Context) {
		HandleGetCurrentUser(c, database)
	})
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(r, "/api/auth/register", `{"username":"alice_1","password":"Passw0rd"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	var created models.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if created.Token == "" || created.User.Username != "alice_1" {
		t.Errorf("register response = %+v", created)
	}

	// The duplicate username is refused.
	w = postJSON(r, "/api/auth/register", `{"username":"alice_1","password":"Passw0rd"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d", w.Code)
	}

	w = postJSON(r, "/api/auth/login", `{"username":"alice_1","password":"Passw0rd"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	w = postJSON(r, "/api/auth/login", `{"username":"alice_1","password":"WrongPass1"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password login status = %d", w.Code)
	}
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	r := newTestRouter(t)

	for name, body := range map[string]string{
		"short username": `{"username":"ab","password":"Passw0rd"}`,
		"weak password":  `{"username":"bob_2","password":"password"}`,
		"missing fields": `{"username":"bob_2"}`,
	} {
		if w := postJSON(r, "/api/auth/register", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(r, "/api/auth/register", `{"username":"carol_3","password":"Passw0rd"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}
	var created models.AuthResponse
	json.Unmarshal(w.Body.Bytes(), &created)

	get := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := get("Bearer " + created.Token); w.Code != http.StatusOK {
		t.Errorf("valid token status = %d", w.Code)
	}
	if w := get(""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing header status = %d", w.Code)
	}
	if w := get("Bearer garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d", w.Code)
	}

	// A token signed elsewhere is refused even with valid claims shape.
	foreign, _ := auth.NewService("other-secret").GenerateToken(created.User.ID, "carol_3")
	if w := get("Bearer " + foreign); w.Code != http.StatusUnauthorized {
		t.Errorf("foreign token status = %d", w.Code)
	}
}
