package projects

import (
	"context"
	"strings"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	dbutil "github.com/landbook/landbook/internal/db"
	"github.com/landbook/landbook/internal/metrics"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/store"
	log "github.com/sirupsen/logrus"
)

// LandRecordInput carries the fields of a new land record. The raiyat is
// resolved by RaiyatID when set, otherwise by RaiyatName, creating the raiyat
// when no name matches.
type LandRecordInput struct {
	RaiyatID        string
	RaiyatName      string
	Timestamp       string
	JamabandiNumber string
	KhataNumber     string
	KhesraNumber    string
	Rakwa           string
	Uttar           string
	Dakshin         string
	Purab           string
	Paschim         string
	Remarks         string
}

// LandRecordPatch is a partial land record update. Nil fields keep their value.
type LandRecordPatch struct {
	RaiyatID        *string
	RaiyatName      *string
	Timestamp       *string
	JamabandiNumber *string
	KhataNumber     *string
	KhesraNumber    *string
	Rakwa           *string
	Uttar           *string
	Dakshin         *string
	Purab           *string
	Paschim         *string
	Remarks         *string
}

// AddLandRecord inserts a land record into an owned project.
func (s *Service) AddLandRecord(ctx context.Context, ownerID, projectID string, in LandRecordInput) (Projection, error) {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Projection{}, errProject
	}
	if _, errAdd := s.addRecord(ctx, project.ID, in); errAdd != nil {
		return Projection{}, errAdd
	}
	return Hydrate(ctx, s.db, project)
}

// UpdateLandRecord applies a patch to a land record of an owned project.
func (s *Service) UpdateLandRecord(ctx context.Context, ownerID, projectID, recordID string, patch LandRecordPatch) (Projection, error) {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Projection{}, errProject
	}
	record, errRecord := s.loadRecord(ctx, project.ID, recordID)
	if errRecord != nil {
		return Projection{}, errRecord
	}

	updates := map[string]any{"updated_at": s.now()}
	if patch.KhesraNumber != nil {
		khesra := strings.TrimSpace(*patch.KhesraNumber)
		if khesra == "" {
			return Projection{}, apperr.Validation(apperr.MsgKhesraRequired)
		}
		updates["khesra_number"] = khesra
	}
	switch {
	case patch.RaiyatID != nil && strings.TrimSpace(*patch.RaiyatID) != "":
		raiyat, errRaiyat := s.raiyatByID(ctx, project.ID, *patch.RaiyatID)
		if errRaiyat != nil {
			return Projection{}, errRaiyat
		}
		updates["raiyat_id"] = raiyat.ID
	case patch.RaiyatName != nil && strings.TrimSpace(*patch.RaiyatName) != "":
		raiyat, errRaiyat := s.resolveRaiyatByName(ctx, project.ID, *patch.RaiyatName)
		if errRaiyat != nil {
			return Projection{}, errRaiyat
		}
		updates["raiyat_id"] = raiyat.ID
	}
	optional := map[string]*string{
		"timestamp":        patch.Timestamp,
		"jamabandi_number": patch.JamabandiNumber,
		"khata_number":     patch.KhataNumber,
		"rakwa":            patch.Rakwa,
		"uttar":            patch.Uttar,
		"dakshin":          patch.Dakshin,
		"purab":            patch.Purab,
		"paschim":          patch.Paschim,
		"remarks":          patch.Remarks,
	}
	for column, value := range optional {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	if ts, ok := updates["timestamp"].(string); ok && ts == "" {
		delete(updates, "timestamp")
	}

	if errUpdate := s.db.WithContext(ctx).Model(&models.LandRecord{}).
		Where("id = ?", record.ID).
		Updates(updates).Error; errUpdate != nil {
		return Projection{}, apperr.Unexpected("update land record", errUpdate)
	}
	log.WithFields(log.Fields{"project_id": project.ID, "record_id": record.ID}).Info("land record updated")
	metrics.Record(metrics.EventRecordUpdated)
	return Hydrate(ctx, s.db, project)
}

// DeleteLandRecord removes a land record of an owned project.
func (s *Service) DeleteLandRecord(ctx context.Context, ownerID, projectID, recordID string) (Projection, error) {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Projection{}, errProject
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", strings.TrimSpace(recordID), project.ID).
		Delete(&models.LandRecord{})
	if res.Error != nil {
		return Projection{}, apperr.Unexpected("delete land record", res.Error)
	}
	if res.RowsAffected == 0 {
		return Projection{}, apperr.NotFound(apperr.MsgRecordNotFound)
	}
	log.WithFields(log.Fields{"project_id": project.ID, "record_id": recordID}).Info("land record deleted")
	metrics.Record(metrics.EventRecordDeleted)
	return Hydrate(ctx, s.db, project)
}

// addRecord validates and inserts a record into projectID.
func (s *Service) addRecord(ctx context.Context, projectID string, in LandRecordInput) (*models.LandRecord, error) {
	khesra := strings.TrimSpace(in.KhesraNumber)
	if khesra == "" {
		return nil, apperr.Validation(apperr.MsgKhesraRequired)
	}

	var raiyat *models.Raiyat
	var errRaiyat error
	switch {
	case strings.TrimSpace(in.RaiyatID) != "":
		raiyat, errRaiyat = s.raiyatByID(ctx, projectID, in.RaiyatID)
	case strings.TrimSpace(in.RaiyatName) != "":
		raiyat, errRaiyat = s.resolveRaiyatByName(ctx, projectID, in.RaiyatName)
	default:
		errRaiyat = apperr.Validation(apperr.MsgRaiyatNameRequired)
	}
	if errRaiyat != nil {
		return nil, errRaiyat
	}

	timestamp := strings.TrimSpace(in.Timestamp)
	if timestamp == "" {
		timestamp = s.now().Format(time.RFC3339)
	}
	record := models.LandRecord{
		ProjectID:       projectID,
		RaiyatID:        raiyat.ID,
		Timestamp:       timestamp,
		JamabandiNumber: strings.TrimSpace(in.JamabandiNumber),
		KhataNumber:     strings.TrimSpace(in.KhataNumber),
		KhesraNumber:    khesra,
		Rakwa:           strings.TrimSpace(in.Rakwa),
		Uttar:           strings.TrimSpace(in.Uttar),
		Dakshin:         strings.TrimSpace(in.Dakshin),
		Purab:           strings.TrimSpace(in.Purab),
		Paschim:         strings.TrimSpace(in.Paschim),
		Remarks:         strings.TrimSpace(in.Remarks),
	}
	if errCreate := s.db.WithContext(ctx).Create(&record).Error; errCreate != nil {
		return nil, apperr.Unexpected("create land record", errCreate)
	}
	log.WithFields(log.Fields{
		"project_id": projectID,
		"record_id":  record.ID,
		"raiyat_id":  raiyat.ID,
	}).Debug("land record created")
	metrics.Record(metrics.EventRecordCreated)
	return &record, nil
}

func (s *Service) loadRecord(ctx context.Context, projectID, recordID string) (*models.LandRecord, error) {
	var record models.LandRecord
	errFind := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", strings.TrimSpace(recordID), projectID).
		First(&record).Error
	if errFind != nil {
		if dbutil.IsNotFound(errFind) {
			return nil, apperr.NotFound(apperr.MsgRecordNotFound)
		}
		return nil, apperr.Unexpected("load land record", errFind)
	}
	return &record, nil
}

func (s *Service) raiyatByID(ctx context.Context, projectID, raiyatID string) (*models.Raiyat, error) {
	var raiyat models.Raiyat
	errFind := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", strings.TrimSpace(raiyatID), projectID).
		First(&raiyat).Error
	if errFind != nil {
		if dbutil.IsNotFound(errFind) {
			return nil, apperr.NotFound(apperr.MsgRaiyatNotFound)
		}
		return nil, apperr.Unexpected("load raiyat", errFind)
	}
	return &raiyat, nil
}

// resolveRaiyatByName finds a raiyat by case-insensitive name or creates it.
func (s *Service) resolveRaiyatByName(ctx context.Context, projectID, name string) (*models.Raiyat, error) {
	existing, errFind := s.findRaiyatByName(ctx, projectID, name)
	if errFind != nil {
		return nil, errFind
	}
	if existing != nil {
		return existing, nil
	}
	created, errCreate := s.createRaiyat(ctx, projectID, name)
	if errCreate == nil {
		return created, nil
	}
	if !dbutil.IsUniqueViolation(errCreate) {
		return nil, apperr.Unexpected("create raiyat", errCreate)
	}
	// Lost a race with a concurrent insert of the same name.
	existing, errFind = s.findRaiyatByName(ctx, projectID, name)
	if errFind != nil {
		return nil, errFind
	}
	if existing == nil {
		return nil, apperr.Conflict(apperr.MsgRaiyatExists)
	}
	return existing, nil
}
