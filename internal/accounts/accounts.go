// Package accounts registers users, issues session tokens and deletes
// accounts with everything they own.
package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/db"
	"github.com/landbook/landbook/internal/metrics"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/security"
	internalsettings "github.com/landbook/landbook/internal/settings"
	"github.com/landbook/landbook/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// User is the public view of an account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a signed-in user with its bearer token.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Mobile   string
	Address  string
	Password string
}

// DeleteResult reports what an account deletion removed.
type DeleteResult struct {
	DeletedProjects    int64 `json:"deletedProjects"`
	DeletedRaiyats     int64 `json:"deletedRaiyats"`
	DeletedLandRecords int64 `json:"deletedLandRecords"`
	DeletedPayments    int64 `json:"deletedPayments"`
}

// Service manages accounts.
type Service struct {
	db     *gorm.DB
	secret string
	expiry time.Duration
}

// NewService constructs a Service signing session tokens with secret.
func NewService(conn *gorm.DB, secret string, expiry time.Duration) *Service {
	if expiry <= 0 {
		expiry = internalsettings.DefaultJWTExpiry
	}
	return &Service{db: conn, secret: secret, expiry: expiry}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	switch {
	case email == "":
		return Session{}, apperr.Validation(apperr.MsgEmailRequired)
	case name == "":
		return Session{}, apperr.Validation(apperr.MsgNameRequired)
	case len(in.Password) < internalsettings.MinPasswordLength:
		return Session{}, apperr.Validation(apperr.MsgPasswordTooShort)
	}

	var existing int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&existing).Error; errCount != nil {
		return Session{}, apperr.Unexpected("check email", errCount)
	}
	if existing > 0 {
		return Session{}, apperr.Conflict(apperr.MsgEmailExists)
	}

	hashed, errHash := security.HashPassword(in.Password)
	if errHash != nil {
		return Session{}, apperr.Unexpected("hash password", errHash)
	}
	user := models.User{
		Email:    email,
		Name:     name,
		Mobile:   strings.TrimSpace(in.Mobile),
		Address:  strings.TrimSpace(in.Address),
		Password: hashed,
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		if db.IsUniqueViolation(errCreate) {
			return Session{}, apperr.Conflict(apperr.MsgEmailExists)
		}
		return Session{}, apperr.Unexpected("create user", errCreate)
	}
	log.WithFields(log.Fields{"user_id": user.ID}).Info("user registered")
	metrics.Record(metrics.EventUserRegistered)
	return s.session(&user)
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, apperr.Validation(apperr.MsgLoginFailed)
	}
	var user models.User
	errFind := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errFind != nil {
		if db.IsNotFound(errFind) {
			return Session{}, apperr.Auth(apperr.MsgLoginFailed)
		}
		return Session{}, apperr.Unexpected("load user", errFind)
	}
	if !security.CheckPassword(user.Password, password) {
		log.WithFields(log.Fields{"user_id": user.ID}).Warn("login rejected")
		return Session{}, apperr.Auth(apperr.MsgLoginFailed)
	}
	return s.session(&user)
}

// Me returns the account of userID.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	user, errLoad := s.load(ctx, userID)
	if errLoad != nil {
		return User{}, errLoad
	}
	return view(user), nil
}

// Authenticate resolves a session token to its user id.
func (s *Service) Authenticate(token string) (string, error) {
	claims, errParse := security.ParseSessionToken(s.secret, token)
	if errParse != nil {
		return "", apperr.Auth(apperr.MsgLoginRequired)
	}
	return claims.UserID, nil
}

// DeleteAccount removes userID with its projects, raiyats, land records and
// payments. Only the signed-in user may delete their own account.
func (s *Service) DeleteAccount(ctx context.Context, sessionUserID, userID string) (DeleteResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return DeleteResult{}, apperr.Validation(apperr.MsgUserIDRequired)
	}
	if userID != sessionUserID {
		return DeleteResult{}, apperr.Auth(apperr.MsgAccountDeleteForbidden)
	}
	if _, errLoad := s.load(ctx, userID); errLoad != nil {
		return DeleteResult{}, errLoad
	}

	var result DeleteResult
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var projectIDs []string
		if errPluck := tx.Model(&models.Project{}).
			Where("user_id = ?", userID).
			Pluck("id", &projectIDs).Error; errPluck != nil {
			return errPluck
		}
		counts, errDelete := store.DeleteProjects(tx, projectIDs)
		if errDelete != nil {
			return errDelete
		}
		result = DeleteResult{
			DeletedProjects:    counts.Projects,
			DeletedRaiyats:     counts.Raiyats,
			DeletedLandRecords: counts.LandRecords,
			DeletedPayments:    counts.Payments,
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
	if errTx != nil {
		return DeleteResult{}, apperr.Unexpected("delete account", errTx)
	}
	log.WithFields(log.Fields{
		"user_id":  userID,
		"projects": result.DeletedProjects,
		"payments": result.DeletedPayments,
	}).Info("account deleted")
	metrics.Record(metrics.EventAccountDeleted)
	return result, nil
}

func (s *Service) load(ctx context.Context, userID string) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.NotFound(apperr.MsgUserNotFound)
	}
	var user models.User
	errFind := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errFind != nil {
		if db.IsNotFound(errFind) {
			return nil, apperr.NotFound(apperr.MsgUserNotFound)
		}
		return nil, apperr.Unexpected("load user", errFind)
	}
	return &user, nil
}

func (s *Service) session(user *models.User) (Session, error) {
	token, expiresAt, errSign := security.IssueSessionToken(s.secret, user.ID, s.expiry)
	if errSign != nil {
		return Session{}, apperr.Unexpected("sign session", errSign)
	}
	return Session{User: view(user), Token: token, ExpiresAt: expiresAt}, nil
}

func view(u *models.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Mobile:    u.Mobile,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}
