package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/agrodesk/farmstock/internal/domain"
)

type fakeAccessChecker struct {
	allow    bool
	gotActor *domain.User
	gotFarm  string
	gotLevel domain.AccessLevel
}

func (f *fakeAccessChecker) CheckAccess(ctx context.Context, actor *domain.User, farmID string, module domain.Module, required domain.AccessLevel) bool {
	f.gotActor = actor
	f.gotFarm = farmID
	f.gotLevel = required
	return f.allow
}

func withUser(req *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(req.Context(), UserContextKey, user)
	return req.WithContext(ctx)
}

func TestRequireModuleAccess_RequiresAuthentication(t *testing.T) {
	checker := &fakeAccessChecker{allow: true}
	mw := RequireModuleAccess(checker, domain.ModuleInventory, domain.AccessReadOnly)

	req := httptest.NewRequest(http.MethodGet, "/farms/farm-1/items", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without a user")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Authentication required" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestRequireModuleAccess_FarmIDFromRoute(t *testing.T) {
	checker := &fakeAccessChecker{allow: true}
	user := &domain.User{ID: "user-1", Role: domain.RoleEmployee}

	r := chi.NewRouter()
	r.With(RequireModuleAccess(checker, domain.ModuleInventory, domain.AccessReadOnly)).
		Get("/farms/{farmID}/items", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	req := withUser(httptest.NewRequest(http.MethodGet, "/farms/farm-1/items", nil), user)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if checker.gotFarm != "farm-1" {
		t.Errorf("expected farm-1, got %q", checker.gotFarm)
	}
	if checker.gotActor != user {
		t.Error("expected actor to be passed through")
	}
	if checker.gotLevel != domain.AccessReadOnly {
		t.Errorf("expected read_only requirement, got %s", checker.gotLevel)
	}
}

func TestRequireModuleAccess_FarmIDFromBody(t *testing.T) {
	checker := &fakeAccessChecker{allow: true}
	user := &domain.User{ID: "user-1", Role: domain.RoleEmployee}

	payload := `{"farmId":"farm-2","itemId":"item-1","quantity":"100"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/stock/entries", bytes.NewBufferString(payload)), user)
	rr := httptest.NewRecorder()

	var handlerBody string
	mw := RequireModuleAccess(checker, domain.ModuleInventory, domain.AccessEdit)
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("handler failed to read body: %v", err)
		}
		handlerBody = string(data)
		w.WriteHeader(http.StatusCreated)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if checker.gotFarm != "farm-2" {
		t.Errorf("expected farm-2 from body, got %q", checker.gotFarm)
	}
	if handlerBody != payload {
		t.Errorf("expected body to be restored for the handler, got %q", handlerBody)
	}
}

func TestRequireModuleAccess_MissingFarmID(t *testing.T) {
	checker := &fakeAccessChecker{allow: true}
	user := &domain.User{ID: "user-1", Role: domain.RoleEmployee}

	req := withUser(httptest.NewRequest(http.MethodPost, "/stock/entries", bytes.NewBufferString(`{"itemId":"item-1"}`)), user)
	rr := httptest.NewRecorder()

	mw := RequireModuleAccess(checker, domain.ModuleInventory, domain.AccessEdit)
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without a farm ID")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Farm ID is required" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestRequireModuleAccess_Denied(t *testing.T) {
	checker := &fakeAccessChecker{allow: false}
	user := &domain.User{ID: "user-1", Role: domain.RoleEmployee}

	r := chi.NewRouter()
	r.With(RequireModuleAccess(checker, domain.ModuleInventory, domain.AccessManage)).
		Get("/farms/{farmID}/stock/consistency", func(w http.ResponseWriter, req *http.Request) {
			t.Fatal("handler should not be called when access is denied")
		})

	req := withUser(httptest.NewRequest(http.MethodGet, "/farms/farm-1/stock/consistency", nil), user)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Access denied" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestRequireModuleAccess_MalformedBody(t *testing.T) {
	checker := &fakeAccessChecker{allow: true}
	user := &domain.User{ID: "user-1", Role: domain.RoleEmployee}

	req := withUser(httptest.NewRequest(http.MethodPost, "/stock/entries", bytes.NewBufferString(`not json`)), user)
	rr := httptest.NewRecorder()

	mw := RequireModuleAccess(checker, domain.ModuleInventory, domain.AccessEdit)
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}
