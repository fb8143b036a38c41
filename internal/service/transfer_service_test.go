package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/models"
	appErrors "github.com/planify-app/planify-api/pkg/errors"
)

type fakeSelection struct {
	fakeReplacer
	sections []models.Section
}

func (f *fakeSelection) Sections(_ context.Context, _ string) ([]models.Section, error) {
	return f.sections, nil
}

type fakeCatalogImporter struct {
	imported []models.Section
	calls    int
	err      error
}

func (f *fakeCatalogImporter) Import(_ context.Context, sections []models.Section) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.imported = sections
	return len(sections), nil
}

func transferFixture(sections ...models.Section) (*TransferService, *fakeSelection, *fakeCatalogImporter) {
	selection := &fakeSelection{sections: sections}
	catalog := &fakeCatalogImporter{}
	return NewTransferService(selection, catalog, zap.NewNop()), selection, catalog
}

func TestExportJSONWrapsEnvelope(t *testing.T) {
	svc, _, _ := transferFixture(
		fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3),
	)

	file, err := svc.Export(context.Background(), "user-1", "Jadwal Saya", ExportFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)
	assert.Equal(t, "schedule.json", file.Filename)

	var envelope dto.ScheduleEnvelope
	require.NoError(t, json.Unmarshal(file.Content, &envelope))
	assert.Equal(t, dto.ScheduleEnvelopeType, envelope.Type)
	assert.Equal(t, dto.ScheduleEnvelopeVersion, envelope.Version)
	assert.Equal(t, "Jadwal Saya", envelope.ScheduleName)
	require.Len(t, envelope.Data, 1)
}

func TestExportDefaultsToJSON(t *testing.T) {
	svc, _, _ := transferFixture(fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))

	file, err := svc.Export(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)
}

func TestExportCSV(t *testing.T) {
	svc, _, _ := transferFixture(fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))

	file, err := svc.Export(context.Background(), "user-1", "", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)

	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "Hari,Jam,Kode,Kelas,Mata Kuliah,Dosen,Ruang,SKS"))
	assert.Contains(t, content, "Senin,08:00-10:00,IF101,A,Mata Kuliah IF101,Dr. Test,R101,3")
}

func TestExportPDF(t *testing.T) {
	svc, _, _ := transferFixture(fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))

	file, err := svc.Export(context.Background(), "user-1", "", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestExportEmptySelection(t *testing.T) {
	svc, _, _ := transferFixture()

	_, err := svc.Export(context.Background(), "user-1", "", ExportFormatJSON)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc, _, _ := transferFixture(fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3))

	_, err := svc.Export(context.Background(), "user-1", "", ExportFormat("xml"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestImportScheduleReplacesSelection(t *testing.T) {
	svc, selection, _ := transferFixture()
	payload, err := json.Marshal(dto.ScheduleEnvelope{
		Type:         dto.ScheduleEnvelopeType,
		Version:      dto.ScheduleEnvelopeVersion,
		ScheduleName: "Imported",
		Data: []models.Section{
			fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3),
		},
	})
	require.NoError(t, err)

	result, err := svc.Import(context.Background(), "user-1", payload, dto.ImportTargetSchedule)
	require.NoError(t, err)
	assert.Equal(t, dto.ImportTargetSchedule, result.Target)
	assert.Equal(t, "Imported", result.ScheduleName)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, selection.calls)
}

func TestImportScheduleRejectsBareArray(t *testing.T) {
	svc, selection, _ := transferFixture()
	payload, err := json.Marshal([]models.Section{
		fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3),
	})
	require.NoError(t, err)

	_, err = svc.Import(context.Background(), "user-1", payload, dto.ImportTargetSchedule)
	require.Error(t, err)
	assert.Zero(t, selection.calls)
}

func TestImportScheduleRejectsWrongTypeOrVersion(t *testing.T) {
	svc, _, _ := transferFixture()
	data := []models.Section{fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3)}

	wrongType, err := json.Marshal(dto.ScheduleEnvelope{Type: "other-app", Version: 1, Data: data})
	require.NoError(t, err)
	_, err = svc.Import(context.Background(), "user-1", wrongType, dto.ImportTargetSchedule)
	require.Error(t, err)

	wrongVersion, err := json.Marshal(dto.ScheduleEnvelope{Type: dto.ScheduleEnvelopeType, Version: 99, Data: data})
	require.NoError(t, err)
	_, err = svc.Import(context.Background(), "user-1", wrongVersion, dto.ImportTargetSchedule)
	require.Error(t, err)
}

func TestImportCatalogUpserts(t *testing.T) {
	svc, _, catalog := transferFixture()
	payload, err := json.Marshal([]models.Section{
		fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3),
		fixtureSection("s2", "IF102", "B", "Selasa", "10:00", "12:00", 2),
	})
	require.NoError(t, err)

	result, err := svc.Import(context.Background(), "user-1", payload, dto.ImportTargetCatalog)
	require.NoError(t, err)
	assert.Equal(t, dto.ImportTargetCatalog, result.Target)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 1, catalog.calls)
}

func TestImportCatalogRejectsScheduleEnvelope(t *testing.T) {
	svc, _, catalog := transferFixture()
	payload, err := json.Marshal(dto.ScheduleEnvelope{
		Type:    dto.ScheduleEnvelopeType,
		Version: dto.ScheduleEnvelopeVersion,
		Data:    []models.Section{fixtureSection("s1", "IF101", "A", "Senin", "08:00", "10:00", 3)},
	})
	require.NoError(t, err)

	_, err = svc.Import(context.Background(), "user-1", payload, dto.ImportTargetCatalog)
	require.Error(t, err)
	assert.Zero(t, catalog.calls)
}

func TestImportUnknownTarget(t *testing.T) {
	svc, _, _ := transferFixture()

	_, err := svc.Import(context.Background(), "user-1", []byte("{}"), dto.ImportTarget("users"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
