package router

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/campaign-mailer-backend/internal/handlers"
	"github.com/onegreenvn/campaign-mailer-backend/internal/middleware"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services/excel"
)

type stubAuth struct{}

func (stubAuth) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	return nil, errors.New("not used")
}
func (stubAuth) RefreshToken(string) (*models.AuthResponse, error) {
	return nil, errors.New("not used")
}
func (stubAuth) Logout(string, string) error                     { return nil }
func (stubAuth) ChangePassword(string, string, string) error     { return nil }
func (stubAuth) ValidateToken(string) (*models.TokenInfo, error) { return nil, errors.New("invalid") }
func (stubAuth) GetUser(string) (*models.User, error)            { return nil, errors.New("not found") }

type stubTemplates struct{ listed bool }

func (s *stubTemplates) CreateTemplate(*models.EmailTemplateRequest) (*models.EmailTemplate, error) {
	return nil, nil
}
func (s *stubTemplates) GetTemplate(string) (*models.EmailTemplate, error) { return nil, nil }
func (s *stubTemplates) ListTemplates() ([]*models.EmailTemplate, error) {
	s.listed = true
	return []*models.EmailTemplate{}, nil
}
func (s *stubTemplates) UpdateTemplate(string, *models.EmailTemplateUpdateRequest) (*models.EmailTemplate, error) {
	return nil, nil
}
func (s *stubTemplates) DeleteTemplate(string) error { return nil }

type stubRecipients struct{}

func (stubRecipients) CreateRecipient(*models.RecipientRequest) (*models.Recipient, error) {
	return nil, nil
}
func (stubRecipients) GetRecipient(string) (*models.Recipient, error) { return nil, nil }
func (stubRecipients) ListRecipients() ([]*models.Recipient, error)   { return nil, nil }
func (stubRecipients) UpdateRecipient(string, *models.RecipientUpdateRequest) (*models.Recipient, error) {
	return nil, nil
}
func (stubRecipients) DeleteRecipient(string) error { return nil }

type stubSender struct{ called bool }

func (s *stubSender) SendCampaign(ctx context.Context, req *models.SendCampaignRequest) (*models.CampaignResult, error) {
	s.called = true
	return &models.CampaignResult{Success: true}, nil
}

type stubLogs struct{}

func (stubLogs) CreateLog(*models.CampaignLogRequest) (*models.CampaignLog, error) { return nil, nil }
func (stubLogs) GetLog(string) (*models.CampaignLog, error)                        { return nil, nil }
func (stubLogs) ListLogs(int) ([]*models.CampaignLog, error)                       { return nil, nil }

func newTestRouter(templates *stubTemplates, sender *stubSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(&Dependencies{
		AuthHandler:           handlers.NewAuthHandler(stubAuth{}),
		EmailTemplateHandler:  handlers.NewEmailTemplateHandler(templates),
		RecipientHandler:      handlers.NewRecipientHandler(stubRecipients{}),
		CampaignHandler:       handlers.NewCampaignHandler(sender),
		CampaignLogHandler:    handlers.NewCampaignLogHandler(stubLogs{}, excel.NewExcelService(), services.NewSSEHub()),
		APIKeyMiddleware:      middleware.NewAPIKeyMiddleware("ingest-key"),
		BearerTokenMiddleware: middleware.NewBearerTokenMiddleware(stubAuth{}),
		AllowedOrigins:        "http://localhost:5173",
	})
}

func TestHealthIsPublic(t *testing.T) {
	r := newTestRouter(&stubTemplates{}, &stubSender{})
	for _, path := range []string{"/health", "/v1/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	templates := &stubTemplates{}
	r := newTestRouter(templates, &stubSender{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/emails", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/emails", nil)
	req.Header.Set("Authorization", "ApiKey ingest-key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !templates.listed {
		t.Fatalf("expected the API key to reach the handler, got %d", w.Code)
	}
}

func TestSendRouteIsNotShadowedByID(t *testing.T) {
	sender := &stubSender{}
	r := newTestRouter(&stubTemplates{}, sender)

	req := httptest.NewRequest(http.MethodPost, "/v1/emails/send", bytes.NewBufferString(`{"templateId":"t","recipientIds":["r"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey ingest-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !sender.called {
		t.Fatalf("expected the send handler, got %d", w.Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := newTestRouter(&stubTemplates{}, &stubSender{})

	req := httptest.NewRequest(http.MethodOptions, "/v1/emails", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
