package registry

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mhodnik/seqnet/internal/protocol"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := NewServer(ServerConfig{ID: "registry-test", Addr: ":0"})
	s.RegisterRoutes()
	return s
}

func postRecord(t *testing.T, s *Server, rec protocol.NodeRecord) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/project", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestRegistrationEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := postRecord(t, s, protocol.NodeRecord{
		Name: "alpha", Host: "127.0.0.1", Port: 9101,
		Sequences: []string{"Arithmetic"},
	})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = postRecord(t, s, protocol.NodeRecord{Name: "", Host: "127.0.0.1", Port: 9101})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid record, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/project", bytes.NewBufferString("{not json"))
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rr.Code)
	}
}

func TestOwnersEndpoint(t *testing.T) {
	s := newTestServer(t)
	postRecord(t, s, protocol.NodeRecord{
		Name: "alpha", Host: "127.0.0.1", Port: 9101,
		Sequences: []string{"Arithmetic", "Smoothed"},
	})
	postRecord(t, s, protocol.NodeRecord{
		Name: "beta", Host: "127.0.0.1", Port: 9102,
		Sequences: []string{"Arithmetic"},
	})

	req := httptest.NewRequest(http.MethodGet, "/project/owners/Smoothed", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var owners protocol.OwnersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &owners); err != nil {
		t.Fatalf("decode owners: %v", err)
	}
	if len(owners.Addresses) != 1 || owners.Addresses[0] != "127.0.0.1:9101" {
		t.Fatalf("unexpected owners: %v", owners.Addresses)
	}

	req = httptest.NewRequest(http.MethodGet, "/project/owners/Geometric", nil)
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("empty owner list must not be an error, got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &owners); err != nil {
		t.Fatalf("decode owners: %v", err)
	}
	if len(owners.Addresses) != 0 {
		t.Fatalf("expected no owners, got %v", owners.Addresses)
	}
}

func TestListEndpoint(t *testing.T) {
	s := newTestServer(t)
	postRecord(t, s, protocol.NodeRecord{
		Name: "alpha", Host: "127.0.0.1", Port: 9101,
		Sequences: []string{"Arithmetic"},
	})

	req := httptest.NewRequest(http.MethodGet, "/project", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var recs []protocol.NodeRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "alpha" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}
