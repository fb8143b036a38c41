package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	appErrors "github.com/planify-app/planify-api/pkg/errors"
	"github.com/planify-app/planify-api/pkg/export"

	"github.com/planify-app/planify-api/internal/dto"
	"github.com/planify-app/planify-api/internal/models"
	"github.com/planify-app/planify-api/internal/timetable"
)

// ExportFormat selects the rendering of a schedule export.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
)

// ExportFile is a rendered export ready to be served as a download.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// selectionAccessor is the slice of SelectionService that TransferService
// needs: reading the current selection and replacing it on import.
type selectionAccessor interface {
	Sections(ctx context.Context, userID string) ([]models.Section, error)
	Replace(ctx context.Context, userID string, sections []models.Section) (*dto.SelectionView, error)
}

// catalogImporter is the slice of CatalogService used for catalog imports.
type catalogImporter interface {
	Import(ctx context.Context, sections []models.Section) (int, error)
}

// TransferService moves schedules in and out of the application. Schedule
// files travel in a typed envelope; catalog files are bare section arrays.
// The two shapes are deliberately incompatible so a schedule export cannot
// be fed into the catalog import and vice versa.
type TransferService struct {
	selection selectionAccessor
	catalog   catalogImporter
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewTransferService constructs a TransferService.
func NewTransferService(selection selectionAccessor, catalog catalogImporter, logger *zap.Logger) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		selection: selection,
		catalog:   catalog,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// Export renders the current selection in the requested format.
func (s *TransferService) Export(ctx context.Context, userID, scheduleName string, format ExportFormat) (*ExportFile, error) {
	sections, err := s.selection.Sections(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "selection is empty, nothing to export")
	}
	sorted := timetable.SortSections(sections)
	if scheduleName == "" {
		scheduleName = "Jadwal Kuliah"
	}

	switch format {
	case "", ExportFormatJSON:
		envelope := dto.ScheduleEnvelope{
			Type:         dto.ScheduleEnvelopeType,
			Version:      dto.ScheduleEnvelopeVersion,
			ScheduleName: scheduleName,
			Data:         sorted,
		}
		content, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule")
		}
		return &ExportFile{Content: content, ContentType: "application/json", Filename: "schedule.json"}, nil
	case ExportFormatCSV:
		content, err := s.csv.Render(scheduleDataset(sorted))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: "schedule.csv"}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(scheduleDataset(sorted), scheduleName)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: "schedule.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// Import routes a payload to the schedule or catalog import path. Schedule
// imports replace the live selection; catalog imports upsert sections into
// the shared catalog.
func (s *TransferService) Import(ctx context.Context, userID string, payload []byte, target dto.ImportTarget) (*dto.ImportResult, error) {
	switch target {
	case dto.ImportTargetSchedule:
		return s.importSchedule(ctx, userID, payload)
	case dto.ImportTargetCatalog:
		return s.importCatalog(ctx, payload)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown import target %q", target))
	}
}

func (s *TransferService) importSchedule(ctx context.Context, userID string, payload []byte) (*dto.ImportResult, error) {
	if isBareArray(payload) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payload is a catalog file, use the catalog import")
	}

	var envelope dto.ScheduleEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "payload is not a valid schedule file")
	}
	if envelope.Type != dto.ScheduleEnvelopeType {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unexpected file type %q", envelope.Type))
	}
	if envelope.Version != dto.ScheduleEnvelopeVersion {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported schedule file version %d", envelope.Version))
	}
	if len(envelope.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule file contains no sections")
	}

	view, err := s.selection.Replace(ctx, userID, envelope.Data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("schedule imported",
		zap.String("userId", userID),
		zap.String("scheduleName", envelope.ScheduleName),
		zap.Int("sections", len(view.Sections)))
	return &dto.ImportResult{
		Target:       dto.ImportTargetSchedule,
		ScheduleName: envelope.ScheduleName,
		Sections:     view.Sections,
		Count:        len(view.Sections),
	}, nil
}

func (s *TransferService) importCatalog(ctx context.Context, payload []byte) (*dto.ImportResult, error) {
	if !isBareArray(payload) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payload is a schedule file, use the schedule import")
	}

	var sections []models.Section
	if err := json.Unmarshal(payload, &sections); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "payload is not a valid catalog file")
	}

	count, err := s.catalog.Import(ctx, sections)
	if err != nil {
		return nil, err
	}
	return &dto.ImportResult{
		Target:   dto.ImportTargetCatalog,
		Sections: sections,
		Count:    count,
	}, nil
}

// isBareArray reports whether the payload's first JSON token opens an array.
func isBareArray(payload []byte) bool {
	for _, b := range payload {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

func scheduleDataset(sections []models.Section) export.Dataset {
	rows := make([]map[string]string, 0, len(sections))
	for _, section := range sections {
		rows = append(rows, map[string]string{
			"Hari":        section.Day,
			"Jam":         section.StartTime + "-" + section.EndTime,
			"Kode":        section.Code,
			"Kelas":       section.Class,
			"Mata Kuliah": section.Name,
			"Dosen":       section.Lecturer,
			"Ruang":       section.Room,
			"SKS":         strconv.Itoa(section.Credits),
		})
	}
	return export.Dataset{
		Headers: []string{"Hari", "Jam", "Kode", "Kelas", "Mata Kuliah", "Dosen", "Ruang", "SKS"},
		Rows:    rows,
	}
}
