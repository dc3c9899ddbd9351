package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mazelabs/maze-referee/internal/hub"
)

func TestGenerateCode(t *testing.T) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 characters", code)
		}
		for _, r := range code {
			if !strings.ContainsRune(charset, r) {
				t.Fatalf("code %q contains %q", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("50 draws produced %d distinct codes", len(seen))
	}
}

func TestCreateAndStatusHandlers(t *testing.T) {
	h := hub.NewHub(context.Background(), hub.Deps{DefaultPlayers: 2})
	srv := httptest.NewServer(SetupRoutes(h))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/matches?players=3", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /matches: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var created struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(created.Code) != 6 {
		t.Fatalf("code: %q", created.Code)
	}

	resp, err = http.Get(srv.URL + "/matches/" + created.Code)
	if err != nil {
		t.Fatalf("GET /matches/{code}: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var status struct {
		Phase   string   `json:"phase"`
		Players []string `json:"players"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Phase != "waiting" || len(status.Players) != 0 {
		t.Fatalf("fresh match status: %+v", status)
	}
}

func TestStatusUnknownCode(t *testing.T) {
	h := hub.NewHub(context.Background(), hub.Deps{})
	srv := httptest.NewServer(SetupRoutes(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/matches/NOPE99")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestCreateRejectsBadPlayerCount(t *testing.T) {
	h := hub.NewHub(context.Background(), hub.Deps{})
	srv := httptest.NewServer(SetupRoutes(h))
	defer srv.Close()

	for _, q := range []string{"players=zero", "players=-1"} {
		resp, err := http.Post(srv.URL+"/matches?"+q, "application/json", nil)
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status %d", q, resp.StatusCode)
		}
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	Healthz(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
}
