package projects

import (
	"context"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/models"
	"gorm.io/gorm"
)

// Raiyat is the wire view of a raiyat.
type Raiyat struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// LandRecord is the wire view of a land record with its raiyat denormalized.
type LandRecord struct {
	ID              string    `json:"id"`
	Timestamp       string    `json:"timestamp"`
	RaiyatID        string    `json:"raiyatId"`
	RaiyatName      string    `json:"raiyatName"`
	RaiyatColor     string    `json:"raiyatColor"`
	JamabandiNumber string    `json:"jamabandiNumber"`
	KhataNumber     string    `json:"khataNumber"`
	KhesraNumber    string    `json:"khesraNumber"`
	Rakwa           string    `json:"rakwa"`
	Uttar           string    `json:"uttar"`
	Dakshin         string    `json:"dakshin"`
	Purab           string    `json:"purab"`
	Paschim         string    `json:"paschim"`
	Remarks         string    `json:"remarks"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Projection is the re-hydrated project returned after every mutation.
type Projection struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	MobileNumber string       `json:"mobileNumber"`
	Created      time.Time    `json:"created"`
	IsShared     bool         `json:"isShared"`
	ShareToken   string       `json:"shareToken,omitempty"`
	RaiyatNames  []Raiyat     `json:"raiyatNames"`
	LandRecords  []LandRecord `json:"landRecords"`
}

// Hydrate loads the raiyats and land records of project into a projection.
// Raiyats and records are ordered by creation.
func Hydrate(ctx context.Context, db *gorm.DB, project *models.Project) (Projection, error) {
	out := Projection{
		ID:           project.ID,
		Name:         project.Name,
		MobileNumber: project.MobileNumber,
		Created:      project.CreatedAt,
		IsShared:     project.IsShared,
		RaiyatNames:  []Raiyat{},
		LandRecords:  []LandRecord{},
	}
	if project.ShareToken != nil {
		out.ShareToken = *project.ShareToken
	}

	var raiyats []models.Raiyat
	if errFind := db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Order("created_at ASC, id ASC").
		Find(&raiyats).Error; errFind != nil {
		return Projection{}, apperr.Unexpected("load raiyats", errFind)
	}
	byID := make(map[string]models.Raiyat, len(raiyats))
	for _, r := range raiyats {
		byID[r.ID] = r
		out.RaiyatNames = append(out.RaiyatNames, raiyatView(r))
	}

	var records []models.LandRecord
	if errFind := db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Order("created_at ASC, id ASC").
		Find(&records).Error; errFind != nil {
		return Projection{}, apperr.Unexpected("load land records", errFind)
	}
	for _, rec := range records {
		out.LandRecords = append(out.LandRecords, recordView(rec, byID[rec.RaiyatID]))
	}
	return out, nil
}

func raiyatView(r models.Raiyat) Raiyat {
	return Raiyat{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Name:      r.Name,
		Color:     r.Color,
		CreatedAt: r.CreatedAt,
	}
}

func recordView(rec models.LandRecord, raiyat models.Raiyat) LandRecord {
	return LandRecord{
		ID:              rec.ID,
		Timestamp:       rec.Timestamp,
		RaiyatID:        rec.RaiyatID,
		RaiyatName:      raiyat.Name,
		RaiyatColor:     raiyat.Color,
		JamabandiNumber: rec.JamabandiNumber,
		KhataNumber:     rec.KhataNumber,
		KhesraNumber:    rec.KhesraNumber,
		Rakwa:           rec.Rakwa,
		Uttar:           rec.Uttar,
		Dakshin:         rec.Dakshin,
		Purab:           rec.Purab,
		Paschim:         rec.Paschim,
		Remarks:         rec.Remarks,
		CreatedAt:       rec.CreatedAt,
	}
}
