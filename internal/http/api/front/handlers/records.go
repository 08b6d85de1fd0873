package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/importer"
	"github.com/landbook/landbook/internal/projects"
)

// maxImportFileSize bounds uploaded CSV files.
const maxImportFileSize = 10 << 20

type landRecordRequest struct {
	RaiyatID        string `json:"raiyatId"`
	RaiyatName      string `json:"raiyatName"`
	Timestamp       string `json:"timestamp"`
	JamabandiNumber string `json:"jamabandiNumber"`
	KhataNumber     string `json:"khataNumber"`
	KhesraNumber    string `json:"khesraNumber"`
	Rakwa           string `json:"rakwa"`
	Uttar           string `json:"uttar"`
	Dakshin         string `json:"dakshin"`
	Purab           string `json:"purab"`
	Paschim         string `json:"paschim"`
	Remarks         string `json:"remarks"`
}

type landRecordPatchRequest struct {
	RaiyatID        *string `json:"raiyatId"`
	RaiyatName      *string `json:"raiyatName"`
	Timestamp       *string `json:"timestamp"`
	JamabandiNumber *string `json:"jamabandiNumber"`
	KhataNumber     *string `json:"khataNumber"`
	KhesraNumber    *string `json:"khesraNumber"`
	Rakwa           *string `json:"rakwa"`
	Uttar           *string `json:"uttar"`
	Dakshin         *string `json:"dakshin"`
	Purab           *string `json:"purab"`
	Paschim         *string `json:"paschim"`
	Remarks         *string `json:"remarks"`
}

// AddRecord inserts a land record.
func (h *ProjectHandler) AddRecord(c *gin.Context) {
	var body landRecordRequest
	if !bindJSON(c, &body) {
		return
	}
	project, errAdd := h.projects.AddLandRecord(c.Request.Context(), getUserID(c), c.Param("id"), projects.LandRecordInput{
		RaiyatID:        body.RaiyatID,
		RaiyatName:      body.RaiyatName,
		Timestamp:       body.Timestamp,
		JamabandiNumber: body.JamabandiNumber,
		KhataNumber:     body.KhataNumber,
		KhesraNumber:    body.KhesraNumber,
		Rakwa:           body.Rakwa,
		Uttar:           body.Uttar,
		Dakshin:         body.Dakshin,
		Purab:           body.Purab,
		Paschim:         body.Paschim,
		Remarks:         body.Remarks,
	})
	if errAdd != nil {
		respondError(c, errAdd, apperr.MsgRecordSaveFailed)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// UpdateRecord applies a partial update to a land record.
func (h *ProjectHandler) UpdateRecord(c *gin.Context) {
	var body landRecordPatchRequest
	if !bindJSON(c, &body) {
		return
	}
	project, errUpdate := h.projects.UpdateLandRecord(c.Request.Context(), getUserID(c), c.Param("id"), c.Param("recordId"), projects.LandRecordPatch{
		RaiyatID:        body.RaiyatID,
		RaiyatName:      body.RaiyatName,
		Timestamp:       body.Timestamp,
		JamabandiNumber: body.JamabandiNumber,
		KhataNumber:     body.KhataNumber,
		KhesraNumber:    body.KhesraNumber,
		Rakwa:           body.Rakwa,
		Uttar:           body.Uttar,
		Dakshin:         body.Dakshin,
		Purab:           body.Purab,
		Paschim:         body.Paschim,
		Remarks:         body.Remarks,
	})
	if errUpdate != nil {
		respondError(c, errUpdate, apperr.MsgRecordSaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteRecord removes a land record.
func (h *ProjectHandler) DeleteRecord(c *gin.Context) {
	project, errDelete := h.projects.DeleteLandRecord(c.Request.Context(), getUserID(c), c.Param("id"), c.Param("recordId"))
	if errDelete != nil {
		respondError(c, errDelete, apperr.MsgRecordSaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": apperr.MsgRecordDeleted, "project": project})
}

type importRequest struct {
	Records []importer.Row `json:"records"`
}

// Import creates land records from a JSON batch.
func (h *ProjectHandler) Import(c *gin.Context) {
	var body importRequest
	if !bindJSON(c, &body) {
		return
	}
	result, errImport := h.projects.ImportRecords(c.Request.Context(), getUserID(c), c.Param("id"), body.Records)
	if errImport != nil {
		respondError(c, errImport, apperr.MsgImportFailed)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportFile creates land records from an uploaded CSV file.
func (h *ProjectHandler) ImportFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportFileSize)
	header, errFile := c.FormFile("file")
	if errFile != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(errFile, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": apperr.MsgImportFileInvalid})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MsgImportFileRequired})
		return
	}
	file, errOpen := header.Open()
	if errOpen != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MsgImportFileInvalid})
		return
	}
	defer func() { _ = file.Close() }()

	result, errImport := h.projects.ImportCSV(c.Request.Context(), getUserID(c), c.Param("id"), file)
	if errImport != nil {
		respondError(c, errImport, apperr.MsgImportFailed)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export downloads the project's land records as CSV.
func (h *ProjectHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	name, errExport := h.projects.ExportRecords(c.Request.Context(), getUserID(c), c.Param("id"), c.Query("raiyat"), &buf)
	if errExport != nil {
		respondError(c, errExport, apperr.MsgExportFailed)
		return
	}
	c.Header("Content-Disposition", contentDisposition(exportFilename(name, c.Query("raiyat"))))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func exportFilename(projectName, raiyat string) string {
	parts := []string{strings.TrimSpace(projectName)}
	if r := strings.TrimSpace(raiyat); r != "" {
		parts = append(parts, r)
	}
	parts = append(parts, "records")
	name := strings.Join(parts, "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	return strings.TrimPrefix(name, "_") + ".csv"
}

// contentDisposition builds an attachment header with an ASCII fallback and
// an RFC 5987 UTF-8 filename.
func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > 0x7e || r < 0x20 {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, url.PathEscape(filename))
}
