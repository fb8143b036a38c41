package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planify-app/planify-api/internal/models"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
)

type fakeCatalogSrv struct {
	sections   []models.Section
	groups     []models.SectionGroup
	section    *models.Section
	err        error
	lastFilter models.SectionFilter
	imported   int
}

func (f *fakeCatalogSrv) List(_ context.Context, filter models.SectionFilter) ([]models.Section, *models.Pagination, bool, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, false, f.err
	}
	return f.sections, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(f.sections)}, true, nil
}

func (f *fakeCatalogSrv) Grouped(_ context.Context, filter models.SectionFilter) ([]models.SectionGroup, error) {
	f.lastFilter = filter
	return f.groups, f.err
}

func (f *fakeCatalogSrv) Section(_ context.Context, _ string) (*models.Section, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.section, nil
}

func (f *fakeCatalogSrv) Import(_ context.Context, sections []models.Section) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.imported = len(sections)
	return len(sections), nil
}

func TestCatalogHandlerListParsesQuery(t *testing.T) {
	srv := &fakeCatalogSrv{sections: []models.Section{{ID: "s1", Code: "IF101"}}}
	handler := NewCatalogHandler(srv)
	c, rec := authedContext(t, http.MethodGet, "/catalog?search=algoritma&semester=1&class=all&day=senin&page=2&limit=10", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "algoritma", srv.lastFilter.Search)
	assert.Equal(t, "1", srv.lastFilter.Semester)
	assert.Equal(t, "all", srv.lastFilter.Class)
	assert.Equal(t, 2, srv.lastFilter.Page)
	assert.Equal(t, 10, srv.lastFilter.PageSize)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestCatalogHandlerGrouped(t *testing.T) {
	srv := &fakeCatalogSrv{groups: []models.SectionGroup{{Code: "IF101", TotalClasses: 2}}}
	handler := NewCatalogHandler(srv)
	c, rec := authedContext(t, http.MethodGet, "/catalog/grouped", nil)

	handler.Grouped(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var groups []models.SectionGroup
	require.NoError(t, json.Unmarshal(envelope.Data, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "IF101", groups[0].Code)
}

func TestCatalogHandlerGetNotFound(t *testing.T) {
	srv := &fakeCatalogSrv{err: appErrors.Clone(appErrors.ErrNotFound, "section not found")}
	handler := NewCatalogHandler(srv)
	c, rec := authedContext(t, http.MethodGet, "/catalog/missing", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandlerImport(t *testing.T) {
	srv := &fakeCatalogSrv{}
	handler := NewCatalogHandler(srv)
	c, rec := authedContext(t, http.MethodPost, "/catalog/import", []models.Section{{ID: "s1"}, {ID: "s2"}})

	handler.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, srv.imported)
}

func TestCatalogHandlerImportBadPayload(t *testing.T) {
	handler := NewCatalogHandler(&fakeCatalogSrv{})
	c, rec := authedContext(t, http.MethodPost, "/catalog/import", map[string]string{"not": "an array"})

	handler.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
