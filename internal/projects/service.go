// Package projects owns the lifecycle of projects, raiyats and land records.
package projects

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/colors"
	dbutil "github.com/landbook/landbook/internal/db"
	"github.com/landbook/landbook/internal/metrics"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// mobilePattern matches a 10-digit Indian mobile number.
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidMobile reports whether mobile is a valid 10-digit mobile number.
func ValidMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

// Service implements project, raiyat and land record operations scoped to
// the acting owner.
type Service struct {
	db     *gorm.DB
	colors colors.Assigner
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithColors replaces the color assigner.
func (s *Service) WithColors(a colors.Assigner) *Service {
	s.colors = a
	return s
}

// CreateProjectInput carries the fields of a new project.
type CreateProjectInput struct {
	Name         string
	MobileNumber string
	UserID       string
}

func validateProjectFields(name, mobile string) error {
	if name == "" {
		return apperr.Validation(apperr.MsgProjectNameRequired)
	}
	if mobile == "" {
		return apperr.Validation(apperr.MsgMobileRequired)
	}
	if !ValidMobile(mobile) {
		return apperr.Validation(apperr.MsgMobileInvalid)
	}
	return nil
}

// CreateProject creates an empty project for in.UserID.
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (Projection, error) {
	name := strings.TrimSpace(in.Name)
	mobile := strings.TrimSpace(in.MobileNumber)
	userID := strings.TrimSpace(in.UserID)
	if errValidate := validateProjectFields(name, mobile); errValidate != nil {
		return Projection{}, errValidate
	}
	if userID == "" {
		return Projection{}, apperr.Validation(apperr.MsgUserIDRequired)
	}

	var userCount int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error; errCount != nil {
		return Projection{}, apperr.Unexpected("check user", errCount)
	}
	if userCount == 0 {
		return Projection{}, apperr.NotFound(apperr.MsgUserMissing)
	}

	if errConflict := s.projectConflict(ctx, userID, name, mobile, ""); errConflict != nil {
		return Projection{}, errConflict
	}

	project := models.Project{Name: name, MobileNumber: mobile, UserID: userID}
	if errCreate := s.db.WithContext(ctx).Create(&project).Error; errCreate != nil {
		if dbutil.IsUniqueViolation(errCreate) {
			return Projection{}, s.conflictAfterViolation(ctx, userID, name, mobile, "")
		}
		return Projection{}, apperr.Unexpected("create project", errCreate)
	}
	log.WithFields(log.Fields{"project_id": project.ID, "user_id": userID}).Info("project created")
	metrics.Record(metrics.EventProjectCreated)
	return Hydrate(ctx, s.db, &project)
}

// UpdateProject renames a project or changes its mobile number.
func (s *Service) UpdateProject(ctx context.Context, ownerID, projectID, name, mobile string) (Projection, error) {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	if errValidate := validateProjectFields(name, mobile); errValidate != nil {
		return Projection{}, errValidate
	}
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Projection{}, errProject
	}
	if errConflict := s.projectConflict(ctx, project.UserID, name, mobile, project.ID); errConflict != nil {
		return Projection{}, errConflict
	}

	errUpdate := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{"name": name, "mobile_number": mobile, "updated_at": s.now()}).Error
	if errUpdate != nil {
		if dbutil.IsUniqueViolation(errUpdate) {
			return Projection{}, s.conflictAfterViolation(ctx, project.UserID, name, mobile, project.ID)
		}
		return Projection{}, apperr.Unexpected("update project", errUpdate)
	}
	project.Name = name
	project.MobileNumber = mobile
	log.WithFields(log.Fields{"project_id": project.ID, "user_id": project.UserID}).Info("project updated")
	metrics.Record(metrics.EventProjectUpdated)
	return Hydrate(ctx, s.db, project)
}

// DeleteProject removes a project with its raiyats, land records and payments.
func (s *Service) DeleteProject(ctx context.Context, ownerID, projectID string) error {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return errProject
	}
	var counts store.ProjectCounts
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var errDelete error
		counts, errDelete = store.DeleteProjects(tx, []string{project.ID})
		return errDelete
	})
	if errTx != nil {
		return apperr.Unexpected("delete project", errTx)
	}
	log.WithFields(log.Fields{
		"project_id":   project.ID,
		"user_id":      project.UserID,
		"raiyats":      counts.Raiyats,
		"land_records": counts.LandRecords,
		"payments":     counts.Payments,
	}).Info("project deleted")
	metrics.Record(metrics.EventProjectDeleted)
	return nil
}

// ListProjects returns the owner's projects, newest first. A non-empty search
// filters by case-insensitive name substring.
func (s *Service) ListProjects(ctx context.Context, ownerID, search string) ([]Projection, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if search = strings.TrimSpace(search); search != "" {
		clause, pattern := dbutil.ContainsClause(s.db, "name", search)
		q = q.Where(clause, pattern)
	}
	var rows []models.Project
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		return nil, apperr.Unexpected("list projects", errFind)
	}
	out := make([]Projection, 0, len(rows))
	for i := range rows {
		projection, errHydrate := Hydrate(ctx, s.db, &rows[i])
		if errHydrate != nil {
			return nil, errHydrate
		}
		out = append(out, projection)
	}
	return out, nil
}

// GetProject returns the projection of one owned project.
func (s *Service) GetProject(ctx context.Context, ownerID, projectID string) (Projection, error) {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Projection{}, errProject
	}
	return Hydrate(ctx, s.db, project)
}

// projectConflict reports a conflict when another project of userID already
// uses name or mobile. excludeID skips the project being updated.
func (s *Service) projectConflict(ctx context.Context, userID, name, mobile, excludeID string) error {
	exists := func(column, value string) (bool, error) {
		q := s.db.WithContext(ctx).Model(&models.Project{}).
			Where("user_id = ?", userID).
			Where(column+" = ?", value)
		if excludeID != "" {
			q = q.Where("id <> ?", excludeID)
		}
		var n int64
		if errCount := q.Count(&n).Error; errCount != nil {
			return false, errCount
		}
		return n > 0, nil
	}

	nameTaken, errName := exists("name", name)
	if errName != nil {
		return apperr.Unexpected("check project name", errName)
	}
	if nameTaken {
		return apperr.Conflict(apperr.MsgProjectNameExists)
	}
	mobileTaken, errMobile := exists("mobile_number", mobile)
	if errMobile != nil {
		return apperr.Unexpected("check project mobile", errMobile)
	}
	if mobileTaken {
		return apperr.Conflict(apperr.MsgProjectMobileExists)
	}
	return nil
}

// conflictAfterViolation names the constraint a racing write hit.
func (s *Service) conflictAfterViolation(ctx context.Context, userID, name, mobile, excludeID string) error {
	errConflict := s.projectConflict(ctx, userID, name, mobile, excludeID)
	var appErr *apperr.Error
	if errors.As(errConflict, &appErr) && appErr.Kind == apperr.KindConflict {
		return appErr
	}
	return apperr.Conflict(apperr.MsgProjectNameExists)
}
