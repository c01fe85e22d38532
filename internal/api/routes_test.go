package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/BISWAJIT-BARAL01/FreshMart/adapters/localstore"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/internal/auth"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	dir := t.TempDir()
	chats, err := localstore.NewChatStore(dir)
	if err != nil {
		t.Fatalf("NewChatStore failed: %v", err)
	}
	sales, err := localstore.NewSaleStore(dir)
	if err != nil {
		t.Fatalf("NewSaleStore failed: %v", err)
	}

	e := echo.New()
	InitRoutes(e, nil, chats, sales, zaptest.NewLogger(t))
	return e
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func userToken(t *testing.T, userID string, role entities.Role) string {
	t.Helper()
	token, err := auth.GenerateUserToken(userID, role)
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}
	return token
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestLoginIssuesRoleToken(t *testing.T) {
	t.Setenv("ADMIN_USER_IDS", "boss,owner")
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/users/login", "", `{"user_id":"vendor1","name":"Vendor"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Role != entities.RoleUser || resp.Token == "" {
		t.Errorf("Unexpected login response: %+v", resp)
	}

	rec = doJSON(e, http.MethodPost, "/api/v1/users/login", "", `{"user_id":"boss"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Role != entities.RoleAdmin {
		t.Errorf("Expected admin role for listed user, got %s", resp.Role)
	}
}

func TestLoginRequiresUserID(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodPost, "/api/v1/users/login", "", `{"name":"NoID"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestLanguagesEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/api/v1/languages", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var langs []entities.LanguageInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &langs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(langs) != len(entities.SupportedLanguages) {
		t.Errorf("Expected %d languages, got %d", len(entities.SupportedLanguages), len(langs))
	}
}

func TestChatEndpointsRequireToken(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/api/v1/chat/vendor1", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestChatHistoryRoundTrip(t *testing.T) {
	e := newTestServer(t)
	token := userToken(t, "vendor1", entities.RoleUser)

	body := `{"messages":[{"id":"m1","role":"user","text":"tomato rate?","timestamp":"2026-09-01T10:00:00Z"}]}`
	rec := doJSON(e, http.MethodPut, "/api/v1/chat/vendor1", token, body)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/chat/vendor1", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp ChatHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].Text != "tomato rate?" {
		t.Errorf("Unexpected history: %+v", resp.Messages)
	}
}

func TestChatHistoryRejectsInvalidMessages(t *testing.T) {
	e := newTestServer(t)
	token := userToken(t, "vendor1", entities.RoleUser)

	body := `{"messages":[{"id":"m1","role":"alien","text":"boo"}]}`
	rec := doJSON(e, http.MethodPut, "/api/v1/chat/vendor1", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestChatAccessControl(t *testing.T) {
	e := newTestServer(t)

	other := userToken(t, "vendor2", entities.RoleUser)
	rec := doJSON(e, http.MethodGet, "/api/v1/chat/vendor1", other, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for another user, got %d", rec.Code)
	}

	admin := userToken(t, "boss", entities.RoleAdmin)
	rec = doJSON(e, http.MethodGet, "/api/v1/chat/vendor1", admin, "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin, got %d", rec.Code)
	}
}

func TestCreateAndListSales(t *testing.T) {
	e := newTestServer(t)
	token := userToken(t, "vendor1", entities.RoleUser)

	rec := doJSON(e, http.MethodPost, "/api/v1/sales", token, `{"item":"Tomato","quantity":5,"unit":"kg","price":150}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var record entities.SaleRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if record.UserID != "vendor1" || record.Item != "Tomato" {
		t.Errorf("Unexpected record: %+v", record)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/sales", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp SalesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Sales) != 1 {
		t.Errorf("Expected 1 sale, got %d", len(resp.Sales))
	}
}

func TestCreateSaleValidation(t *testing.T) {
	e := newTestServer(t)
	token := userToken(t, "vendor1", entities.RoleUser)

	// Item and positive price are both required; unknown units default to kg.
	rec := doJSON(e, http.MethodPost, "/api/v1/sales", token, `{"item":"","quantity":5,"price":100}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank item, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/v1/sales", token, `{"item":"Potato","quantity":2,"price":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for zero price, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/v1/sales", token, `{"item":"Potato","quantity":0,"unit":"quintal","price":20}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201 for zero quantity with unknown unit, got %d: %s", rec.Code, rec.Body.String())
	}
	var record entities.SaleRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if record.Unit != entities.UnitKilogram {
		t.Errorf("Expected kg default unit, got %s", record.Unit)
	}
}

func TestListSalesAccessControl(t *testing.T) {
	e := newTestServer(t)

	user := userToken(t, "vendor2", entities.RoleUser)
	rec := doJSON(e, http.MethodGet, "/api/v1/sales?user_id=vendor1", user, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for another user's sales, got %d", rec.Code)
	}

	admin := userToken(t, "boss", entities.RoleAdmin)
	rec = doJSON(e, http.MethodGet, "/api/v1/sales?user_id=vendor1", admin, "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin, got %d", rec.Code)
	}
}
