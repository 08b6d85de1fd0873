package projects

import (
	"context"
	"strings"

	"github.com/landbook/landbook/internal/apperr"
	dbutil "github.com/landbook/landbook/internal/db"
	"github.com/landbook/landbook/internal/metrics"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddRaiyat creates a raiyat with the next free palette color. Names are
// unique per project regardless of case.
func (s *Service) AddRaiyat(ctx context.Context, ownerID, projectID, name string) (Projection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Projection{}, apperr.Validation(apperr.MsgRaiyatNameRequired)
	}
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Projection{}, errProject
	}
	existing, errFind := s.findRaiyatByName(ctx, project.ID, name)
	if errFind != nil {
		return Projection{}, errFind
	}
	if existing != nil {
		return Projection{}, apperr.Conflict(apperr.MsgRaiyatExists)
	}
	if _, errCreate := s.createRaiyat(ctx, project.ID, name); errCreate != nil {
		if dbutil.IsUniqueViolation(errCreate) {
			return Projection{}, apperr.Conflict(apperr.MsgRaiyatExists)
		}
		return Projection{}, apperr.Unexpected("create raiyat", errCreate)
	}
	return Hydrate(ctx, s.db, project)
}

// DeleteRaiyat removes a raiyat and every land record attributed to it.
func (s *Service) DeleteRaiyat(ctx context.Context, ownerID, projectID, raiyatID string) (Projection, error) {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Projection{}, errProject
	}
	var deleted int64
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var errDelete error
		deleted, errDelete = store.DeleteRaiyat(tx, project.ID, strings.TrimSpace(raiyatID))
		return errDelete
	})
	if errTx != nil {
		return Projection{}, apperr.Unexpected("delete raiyat", errTx)
	}
	if deleted == 0 {
		return Projection{}, apperr.NotFound(apperr.MsgRaiyatNotFound)
	}
	log.WithFields(log.Fields{"project_id": project.ID, "raiyat_id": raiyatID}).Info("raiyat deleted")
	metrics.Record(metrics.EventRaiyatDeleted)
	return Hydrate(ctx, s.db, project)
}

// AutoAssignColors gives a palette color to every raiyat without one, in
// creation order.
func (s *Service) AutoAssignColors(ctx context.Context, ownerID, projectID string) (Projection, int, error) {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Projection{}, 0, errProject
	}
	assigned := 0
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raiyats []models.Raiyat
		if errFind := tx.Where("project_id = ?", project.ID).
			Order("created_at ASC, id ASC").
			Find(&raiyats).Error; errFind != nil {
			return errFind
		}
		current := make([]string, len(raiyats))
		for i, r := range raiyats {
			current[i] = r.Color
		}
		for idx, color := range s.colors.Backfill(current) {
			if errUpdate := tx.Model(&models.Raiyat{}).
				Where("id = ?", raiyats[idx].ID).
				Update("color", color).Error; errUpdate != nil {
				return errUpdate
			}
			assigned++
		}
		return nil
	})
	if errTx != nil {
		return Projection{}, 0, apperr.Unexpected("assign colors", errTx)
	}
	log.WithFields(log.Fields{"project_id": project.ID, "assigned": assigned}).Info("raiyat colors assigned")
	projection, errHydrate := Hydrate(ctx, s.db, project)
	return projection, assigned, errHydrate
}

// findRaiyatByName looks a raiyat up by case-insensitive name. It returns nil
// when none matches.
func (s *Service) findRaiyatByName(ctx context.Context, projectID, name string) (*models.Raiyat, error) {
	var raiyat models.Raiyat
	errFind := s.db.WithContext(ctx).
		Where("project_id = ? AND name_key = ?", projectID, models.RaiyatNameKey(name)).
		First(&raiyat).Error
	if errFind != nil {
		if dbutil.IsNotFound(errFind) {
			return nil, nil
		}
		return nil, apperr.Unexpected("find raiyat", errFind)
	}
	return &raiyat, nil
}

// createRaiyat picks the next color and inserts the raiyat in one transaction.
func (s *Service) createRaiyat(ctx context.Context, projectID, name string) (*models.Raiyat, error) {
	raiyat := models.Raiyat{ProjectID: projectID, Name: strings.TrimSpace(name)}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used []string
		if errPluck := tx.Model(&models.Raiyat{}).
			Where("project_id = ?", projectID).
			Pluck("color", &used).Error; errPluck != nil {
			return errPluck
		}
		raiyat.Color = s.colors.Assign(used)
		return tx.Create(&raiyat).Error
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{
		"project_id": projectID,
		"raiyat_id":  raiyat.ID,
		"color":      raiyat.Color,
	}).Info("raiyat created")
	metrics.Record(metrics.EventRaiyatCreated)
	return &raiyat, nil
}
