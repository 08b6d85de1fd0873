package projects

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/importer"
	"github.com/landbook/landbook/internal/metrics"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/store"
	log "github.com/sirupsen/logrus"
)

// ImportResult reports a bulk import together with the refreshed project.
type ImportResult struct {
	Project Projection `json:"project"`
	importer.Summary
	DroppedCount int `json:"droppedCount"`
}

// ImportRecords creates one land record per row, reusing raiyats by
// case-insensitive name and creating missing ones. Rows are processed in
// order; a failed row is reported and does not stop the batch.
func (s *Service) ImportRecords(ctx context.Context, ownerID, projectID string, rows []importer.Row) (ImportResult, error) {
	if rows == nil {
		return ImportResult{}, apperr.Validation(apperr.MsgRecordInvalid)
	}
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return ImportResult{}, errProject
	}

	var existing []models.Raiyat
	if errFind := s.db.WithContext(ctx).Where("project_id = ?", project.ID).Find(&existing).Error; errFind != nil {
		return ImportResult{}, apperr.Unexpected("load raiyats", errFind)
	}
	raiyatIDs := make(map[string]string, len(existing))
	for _, r := range existing {
		raiyatIDs[r.NameKey] = r.ID
	}

	summary := importer.Batch{}.Run(rows, func(row importer.Row) error {
		row = row.Normalize()
		if row.RaiyatName == "" {
			return apperr.Validation(apperr.MsgRaiyatNameRequired)
		}
		in := LandRecordInput{
			RaiyatName:      row.RaiyatName,
			JamabandiNumber: row.JamabandiNumber,
			KhataNumber:     row.KhataNumber,
			KhesraNumber:    row.KhesraNumber,
			Rakwa:           row.Rakwa,
			Uttar:           row.Uttar,
			Dakshin:         row.Dakshin,
			Purab:           row.Purab,
			Paschim:         row.Paschim,
			Remarks:         row.Remarks,
		}
		if id, ok := raiyatIDs[models.RaiyatNameKey(row.RaiyatName)]; ok {
			in.RaiyatID = id
		}
		record, errAdd := s.addRecord(ctx, project.ID, in)
		if errAdd != nil {
			return errAdd
		}
		raiyatIDs[models.RaiyatNameKey(row.RaiyatName)] = record.RaiyatID
		return nil
	})
	metrics.ImportRows.WithLabelValues("created").Add(float64(summary.CreatedCount))
	metrics.ImportRows.WithLabelValues("failed").Add(float64(summary.ErrorCount))
	log.WithFields(log.Fields{
		"project_id": project.ID,
		"created":    summary.CreatedCount,
		"failed":     summary.ErrorCount,
	}).Info("land records imported")

	projection, errHydrate := Hydrate(ctx, s.db, project)
	if errHydrate != nil {
		return ImportResult{}, errHydrate
	}
	return ImportResult{Project: projection, Summary: summary}, nil
}

// ImportCSV reads a CSV upload, drops rows without a raiyat name or khesra
// number, and imports the rest.
func (s *Service) ImportCSV(ctx context.Context, ownerID, projectID string, r io.Reader) (ImportResult, error) {
	rows, dropped, errRead := importer.ReadCSV(r)
	if errRead != nil {
		if errors.Is(errRead, importer.ErrEmptyFile) {
			return ImportResult{}, apperr.Validation(apperr.MsgImportEmpty)
		}
		return ImportResult{}, &apperr.Error{Kind: apperr.KindValidation, Message: apperr.MsgImportFileInvalid, Err: errRead}
	}
	result, errImport := s.ImportRecords(ctx, ownerID, projectID, rows)
	if errImport != nil {
		return ImportResult{}, errImport
	}
	result.DroppedCount = dropped
	return result, nil
}

// ExportRecords writes the project's land records as CSV with headers the
// importer recognizes. A non-empty raiyat filter keeps only that raiyat's
// records, matched case-insensitively. It returns the project name.
func (s *Service) ExportRecords(ctx context.Context, ownerID, projectID, raiyat string, w io.Writer) (string, error) {
	project, errProject := s.GetProject(ctx, ownerID, projectID)
	if errProject != nil {
		return "", errProject
	}
	filterKey := models.RaiyatNameKey(raiyat)
	rows := make([]importer.Row, 0, len(project.LandRecords))
	for _, rec := range project.LandRecords {
		if filterKey != "" && models.RaiyatNameKey(rec.RaiyatName) != filterKey {
			continue
		}
		rows = append(rows, importer.Row{
			RaiyatName:      rec.RaiyatName,
			JamabandiNumber: rec.JamabandiNumber,
			KhataNumber:     rec.KhataNumber,
			KhesraNumber:    rec.KhesraNumber,
			Rakwa:           rec.Rakwa,
			Uttar:           rec.Uttar,
			Dakshin:         rec.Dakshin,
			Purab:           rec.Purab,
			Paschim:         rec.Paschim,
			Remarks:         rec.Remarks,
		})
	}
	if errWrite := importer.WriteCSV(w, rows); errWrite != nil {
		return "", apperr.Unexpected("write csv", errWrite)
	}
	return strings.TrimSpace(project.Name), nil
}
