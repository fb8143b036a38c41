package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/middleware"
	"github.com/planify-app/planify-api/internal/models"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeSelectionSrv struct {
	view       *dto.SelectionView
	err        error
	lastUserID string
	toggled    *models.Section
	replaced   []models.Section
	cleared    bool
}

func (f *fakeSelectionSrv) View(_ context.Context, userID string) (*dto.SelectionView, error) {
	f.lastUserID = userID
	return f.view, f.err
}

func (f *fakeSelectionSrv) Toggle(_ context.Context, userID string, section models.Section) (*dto.SelectionView, error) {
	f.lastUserID = userID
	f.toggled = &section
	return f.view, f.err
}

func (f *fakeSelectionSrv) Replace(_ context.Context, userID string, sections []models.Section) (*dto.SelectionView, error) {
	f.lastUserID = userID
	f.replaced = sections
	return f.view, f.err
}

func (f *fakeSelectionSrv) Clear(_ context.Context, userID string) (*dto.SelectionView, error) {
	f.lastUserID = userID
	f.cleared = true
	return f.view, f.err
}

func (f *fakeSelectionSrv) Conflicts(_ context.Context, userID string) ([]models.Conflict, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.view.Conflicts, nil
}

func (f *fakeSelectionSrv) Stats(_ context.Context, userID string) (*models.ScheduleStats, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &f.view.Stats, nil
}

func testContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func authedContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	c, rec := testContext(t, method, target, body)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})
	return c, rec
}

func emptyView() *dto.SelectionView {
	return &dto.SelectionView{Sections: []models.Section{}, Conflicts: []models.Conflict{}}
}

func TestSelectionHandlerViewRequiresAuth(t *testing.T) {
	handler := NewSelectionHandler(&fakeSelectionSrv{view: emptyView()})
	c, rec := testContext(t, http.MethodGet, "/selection", nil)

	handler.View(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSelectionHandlerView(t *testing.T) {
	srv := &fakeSelectionSrv{view: emptyView()}
	handler := NewSelectionHandler(srv)
	c, rec := authedContext(t, http.MethodGet, "/selection", nil)

	handler.View(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", srv.lastUserID)
}

func TestSelectionHandlerToggle(t *testing.T) {
	srv := &fakeSelectionSrv{view: emptyView()}
	handler := NewSelectionHandler(srv)
	section := models.Section{ID: "s1", Code: "IF101", Class: "A"}
	c, rec := authedContext(t, http.MethodPost, "/selection/toggle", dto.ToggleSectionRequest{Section: section})

	handler.Toggle(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.toggled)
	assert.Equal(t, "IF101", srv.toggled.Code)
}

func TestSelectionHandlerToggleBadPayload(t *testing.T) {
	handler := NewSelectionHandler(&fakeSelectionSrv{view: emptyView()})
	c, rec := authedContext(t, http.MethodPost, "/selection/toggle", nil)
	c.Request = httptest.NewRequest(http.MethodPost, "/selection/toggle", bytes.NewReader([]byte("{not json")))

	handler.Toggle(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectionHandlerToggleServiceError(t *testing.T) {
	srv := &fakeSelectionSrv{err: appErrors.Clone(appErrors.ErrMalformedSection, "bad record")}
	handler := NewSelectionHandler(srv)
	c, rec := authedContext(t, http.MethodPost, "/selection/toggle", dto.ToggleSectionRequest{Section: models.Section{}})

	handler.Toggle(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "MALFORMED_SECTION", envelope.Error["code"])
}

func TestSelectionHandlerReplace(t *testing.T) {
	srv := &fakeSelectionSrv{view: emptyView()}
	handler := NewSelectionHandler(srv)
	sections := []models.Section{{ID: "s1", Code: "IF101", Class: "A"}}
	c, rec := authedContext(t, http.MethodPut, "/selection", dto.ReplaceSelectionRequest{Sections: sections})

	handler.Replace(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, srv.replaced, 1)
}

func TestSelectionHandlerClear(t *testing.T) {
	srv := &fakeSelectionSrv{view: emptyView()}
	handler := NewSelectionHandler(srv)
	c, rec := authedContext(t, http.MethodDelete, "/selection", nil)

	handler.Clear(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.cleared)
}

func TestSelectionHandlerStats(t *testing.T) {
	srv := &fakeSelectionSrv{view: &dto.SelectionView{Stats: models.ScheduleStats{TotalCredits: 9}}}
	handler := NewSelectionHandler(srv)
	c, rec := authedContext(t, http.MethodGet, "/selection/stats", nil)

	handler.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var stats models.ScheduleStats
	require.NoError(t, json.Unmarshal(envelope.Data, &stats))
	assert.Equal(t, 9, stats.TotalCredits)
}
