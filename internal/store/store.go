// Package store holds the gorm lookups and cascades shared by the domain services.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/landbook/landbook/internal/apperr"
	dbutil "github.com/landbook/landbook/internal/db"
	"github.com/landbook/landbook/internal/models"
	"gorm.io/gorm"
)

// OwnedProject loads a project owned by ownerID. Projects that do not exist
// and projects owned by someone else both yield a not-found error.
func OwnedProject(ctx context.Context, db *gorm.DB, ownerID, projectID string) (*models.Project, error) {
	if db == nil {
		return nil, fmt.Errorf("store: nil db")
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" || strings.TrimSpace(ownerID) == "" {
		return nil, apperr.NotFound(apperr.MsgProjectNotFound)
	}
	var project models.Project
	errFind := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", projectID, ownerID).
		First(&project).Error
	if errFind != nil {
		if dbutil.IsNotFound(errFind) {
			return nil, apperr.NotFound(apperr.MsgProjectNotFound)
		}
		return nil, apperr.Unexpected("load project", errFind)
	}
	return &project, nil
}

// SharedProject loads the project currently shared under token.
func SharedProject(ctx context.Context, db *gorm.DB, token string) (*models.Project, error) {
	if db == nil {
		return nil, fmt.Errorf("store: nil db")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.NotFound(apperr.MsgShareInvalid)
	}
	var project models.Project
	errFind := db.WithContext(ctx).
		Where("share_token = ? AND is_shared = ?", token, true).
		First(&project).Error
	if errFind != nil {
		if dbutil.IsNotFound(errFind) {
			return nil, apperr.NotFound(apperr.MsgShareInvalid)
		}
		return nil, apperr.Unexpected("load shared project", errFind)
	}
	return &project, nil
}

// ProjectCounts reports how many rows a cascade removed.
type ProjectCounts struct {
	Projects    int64
	Raiyats     int64
	LandRecords int64
	Payments    int64
}

// DeleteProjects removes the given projects with their raiyats, land records
// and payments. It must run inside a transaction.
func DeleteProjects(tx *gorm.DB, projectIDs []string) (ProjectCounts, error) {
	var counts ProjectCounts
	if len(projectIDs) == 0 {
		return counts, nil
	}

	res := tx.Where("project_id IN ?", projectIDs).Delete(&models.LandRecord{})
	if res.Error != nil {
		return counts, fmt.Errorf("delete land records: %w", res.Error)
	}
	counts.LandRecords = res.RowsAffected

	res = tx.Where("project_id IN ?", projectIDs).Delete(&models.Raiyat{})
	if res.Error != nil {
		return counts, fmt.Errorf("delete raiyats: %w", res.Error)
	}
	counts.Raiyats = res.RowsAffected

	res = tx.Where("project_id IN ?", projectIDs).Delete(&models.Payment{})
	if res.Error != nil {
		return counts, fmt.Errorf("delete payments: %w", res.Error)
	}
	counts.Payments = res.RowsAffected

	res = tx.Where("id IN ?", projectIDs).Delete(&models.Project{})
	if res.Error != nil {
		return counts, fmt.Errorf("delete projects: %w", res.Error)
	}
	counts.Projects = res.RowsAffected
	return counts, nil
}

// DeleteRaiyat removes a raiyat and the land records attributed to it. It must
// run inside a transaction.
func DeleteRaiyat(tx *gorm.DB, projectID, raiyatID string) (int64, error) {
	if errRecords := tx.Where("project_id = ? AND raiyat_id = ?", projectID, raiyatID).
		Delete(&models.LandRecord{}).Error; errRecords != nil {
		return 0, fmt.Errorf("delete raiyat records: %w", errRecords)
	}
	res := tx.Where("id = ? AND project_id = ?", raiyatID, projectID).Delete(&models.Raiyat{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete raiyat: %w", res.Error)
	}
	return res.RowsAffected, nil
}
