package httptransport

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formledger/internal/admin"
	"formledger/internal/approval"
	jwttoken "formledger/internal/jwt_token"
	"formledger/internal/ledger"
	id "formledger/pkg/domain"
)

const signingKey = "test-signing-key"

func testAddr(seed byte) id.Address {
	var a id.Address
	a[31] = seed
	return a
}

func hashHex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return id.FormHash(sum).String()
}

type fixture struct {
	router http.Handler
	jwt    *jwttoken.JWTService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := ledger.NewMemoryStore()
	admins, err := admin.New(store)
	if err != nil {
		t.Fatalf("admin service: %v", err)
	}
	approvals, err := approval.New(store, admins)
	if err != nil {
		t.Fatalf("approval service: %v", err)
	}

	jwtService := jwttoken.NewJWTService(signingKey, "formledger", "formledger-api")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := NewHandler(admins, approvals, jwtService, logger)

	return &fixture{router: NewRouter(h), jwt: jwtService}
}

func (f *fixture) do(t *testing.T, method, path string, body any, caller *id.Address) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		token, err := f.jwt.GenerateCallerToken(*caller, time.Minute)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestMutationsRequireToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/admin/config", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/approvals", map[string]string{
		"document_id":   "f1",
		"document_hash": hashHex("hello"),
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestFullApprovalFlowViaHandlers(t *testing.T) {
	f := newFixture(t)
	authority := testAddr(1)
	signer := testAddr(2)

	// Authority initializes the registry and adds the signer as admin.
	rec := f.do(t, http.MethodPost, "/admin/config", nil, &authority)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 initializing, got %d: %s", rec.Code, rec.Body)
	}
	rec = f.do(t, http.MethodPost, "/admin/admins", map[string]string{"address": signer.String()}, &authority)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 adding admin, got %d: %s", rec.Code, rec.Body)
	}

	// Anyone can check membership without a token.
	rec = f.do(t, http.MethodGet, "/admin/admins/"+signer.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 checking admin, got %d", rec.Code)
	}
	var membership struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&membership); err != nil {
		t.Fatalf("decode membership: %v", err)
	}
	if !membership.IsAdmin {
		t.Fatalf("expected signer to be an admin")
	}

	// Signer approves a form.
	rec = f.do(t, http.MethodPost, "/approvals", map[string]string{
		"document_id":   "f1",
		"document_hash": hashHex("hello"),
		"metadata":      "v1",
	}, &signer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 signing, got %d: %s", rec.Code, rec.Body)
	}
	var created struct {
		Signer     string `json:"signer"`
		Metadata   string `json:"metadata"`
		ApprovedAt int64  `json:"approved_at"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode approval: %v", err)
	}
	if created.Signer != signer.String() {
		t.Fatalf("expected signer %s, got %s", signer.String(), created.Signer)
	}
	if created.Metadata != "v1" {
		t.Fatalf("expected metadata v1, got %q", created.Metadata)
	}
	if created.ApprovedAt == 0 {
		t.Fatalf("expected approved_at to be stamped")
	}

	// Second approval of the same form conflicts, even from the authority.
	rec = f.do(t, http.MethodPost, "/approvals", map[string]string{
		"document_id":   "f1",
		"document_hash": hashHex("other"),
	}, &authority)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double approval, got %d", rec.Code)
	}

	// Only the original signer may update metadata.
	rec = f.do(t, http.MethodPatch, "/approvals/f1", map[string]string{"metadata": "v2"}, &authority)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 updating as non-signer, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodPatch, "/approvals/f1", map[string]string{"metadata": "v2"}, &signer)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating metadata, got %d: %s", rec.Code, rec.Body)
	}

	// Verification is public and hash-sensitive.
	rec = f.do(t, http.MethodPost, "/approvals/f1/verify", map[string]string{"document_hash": hashHex("hello")}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 verifying, got %d", rec.Code)
	}
	var verdict struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&verdict); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	if !verdict.Valid {
		t.Fatalf("expected matching hash to verify")
	}

	rec = f.do(t, http.MethodPost, "/approvals/f1/verify", map[string]string{"document_hash": hashHex("world")}, nil)
	_ = json.NewDecoder(rec.Body).Decode(&verdict)
	if verdict.Valid {
		t.Fatalf("expected mismatched hash to fail verification")
	}

	// Details return the updated metadata with immutable core intact.
	rec = f.do(t, http.MethodGet, "/approvals/f1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching details, got %d", rec.Code)
	}
	var details struct {
		DocumentID   string `json:"document_id"`
		DocumentHash string `json:"document_hash"`
		Metadata     string `json:"metadata"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details.DocumentID != "f1" || details.DocumentHash != hashHex("hello") || details.Metadata != "v2" {
		t.Fatalf("unexpected details: %+v", details)
	}
}

func TestStatusMapping(t *testing.T) {
	f := newFixture(t)
	authority := testAddr(1)
	outsider := testAddr(9)

	rec := f.do(t, http.MethodPost, "/admin/config", nil, &authority)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 initializing, got %d", rec.Code)
	}

	t.Run("double initialization conflicts", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/admin/config", nil, &outsider)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("non-authority admin mutation forbidden", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/admin/admins", map[string]string{"address": testAddr(3).String()}, &outsider)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("non-admin sign forbidden", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/approvals", map[string]string{
			"document_id":   "f1",
			"document_hash": hashHex("hello"),
		}, &outsider)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("last admin removal unprocessable", func(t *testing.T) {
		rec := f.do(t, http.MethodDelete, "/admin/admins/"+authority.String(), nil, &authority)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("absent approval not found", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/approvals/missing", nil, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}

		rec = f.do(t, http.MethodPost, "/approvals/missing/verify", map[string]string{"document_hash": hashHex("hello")}, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 verifying absent record, got %d", rec.Code)
		}
	})

	t.Run("zero hash rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/approvals", map[string]string{
			"document_id":   "f2",
			"document_hash": id.FormHash{}.String(),
		}, &authority)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		token, _ := f.jwt.GenerateCallerToken(authority, time.Minute)
		req := httptest.NewRequest(http.MethodPost, "/approvals", bytes.NewReader([]byte("{")))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
