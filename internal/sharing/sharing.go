// Package sharing issues password-gated share links for projects and serves
// the read-only views behind them.
package sharing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/metrics"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/ratelimit"
	"github.com/landbook/landbook/internal/security"
	internalsettings "github.com/landbook/landbook/internal/settings"
	"github.com/landbook/landbook/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Limiter guards password verification attempts.
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// Config holds share link settings.
type Config struct {
	// Secret signs viewer access tokens.
	Secret string
	// AccessExpiry is the lifetime of a viewer access token.
	AccessExpiry time.Duration
}

// Service implements the share link state machine and viewer reads.
type Service struct {
	db      *gorm.DB
	cfg     Config
	limiter Limiter
}

// NewService constructs a Service. A nil limiter disables attempt limiting.
func NewService(db *gorm.DB, cfg Config, limiter Limiter) *Service {
	if cfg.AccessExpiry <= 0 {
		cfg.AccessExpiry = internalsettings.DefaultShareAccessExpiry
	}
	return &Service{db: db, cfg: cfg, limiter: limiter}
}

// SharedProject is the project summary returned when issuing a link.
type SharedProject struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	IsShared     bool   `json:"isShared"`
}

// Link is the result of issuing a share link.
type Link struct {
	ShareURL        string        `json:"shareUrl"`
	ShareToken      string        `json:"shareToken"`
	WhatsAppMessage string        `json:"whatsappMessage"`
	Project         SharedProject `json:"project"`
}

// Owner is the public profile of a shared project's owner.
type Owner struct {
	Name string `json:"name"`
}

// Metadata is what an unauthenticated visitor may see about a shared project.
type Metadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Owner     Owner     `json:"owner"`
}

// Access is returned after a successful password verification.
type Access struct {
	Verified    bool      `json:"verified"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Project     Metadata  `json:"project"`
}

// ShareURL builds the public URL of a share token.
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/share/" + token
}

// WhatsAppMessage formats the message sent along with a share link.
func WhatsAppMessage(projectName, password, shareURL string) string {
	return fmt.Sprintf("🏠 *प्रोजेक्ट विवरण*\n\n"+
		"📝 *प्रोजेक्ट नाम*: %s\n"+
		"📱 *पासवर्ड*: %s\n"+
		"🔗 *देखने के लिए लिंक*: %s\n\n"+
		"📋 *उपलब्ध जानकारी*:\n"+
		"• सभी भूमि रिकॉर्ड\n"+
		"• रैयत की जानकारी\n"+
		"• चार्ट और विश्लेषण\n"+
		"• भुगतान सारांश", projectName, password, shareURL)
}

// Issue shares a project. An existing token is reused.
func (s *Service) Issue(ctx context.Context, ownerID, projectID, baseURL string) (Link, error) {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return Link{}, errProject
	}

	token := ""
	if project.ShareToken != nil {
		token = *project.ShareToken
	}
	if token == "" || !project.IsShared {
		if token == "" {
			generated, errToken := security.RandomHex(internalsettings.ShareTokenBytes)
			if errToken != nil {
				return Link{}, apperr.Unexpected("generate share token", errToken)
			}
			token = generated
		}
		if errUpdate := s.db.WithContext(ctx).Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]any{"share_token": token, "is_shared": true}).Error; errUpdate != nil {
			return Link{}, apperr.Unexpected("store share token", errUpdate)
		}
		log.WithFields(log.Fields{"project_id": project.ID, "user_id": project.UserID}).Info("share link issued")
		metrics.Record(metrics.EventShareIssued)
	}

	url := ShareURL(baseURL, token)
	return Link{
		ShareURL:        url,
		ShareToken:      token,
		WhatsAppMessage: WhatsAppMessage(project.Name, project.MobileNumber, url),
		Project: SharedProject{
			ID:           project.ID,
			Name:         project.Name,
			MobileNumber: project.MobileNumber,
			IsShared:     true,
		},
	}, nil
}

// Revoke stops sharing a project and discards its token.
func (s *Service) Revoke(ctx context.Context, ownerID, projectID string) error {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return errProject
	}
	if errUpdate := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{"share_token": gorm.Expr("NULL"), "is_shared": false}).Error; errUpdate != nil {
		return apperr.Unexpected("revoke share", errUpdate)
	}
	log.WithFields(log.Fields{"project_id": project.ID, "user_id": project.UserID}).Info("share link revoked")
	metrics.Record(metrics.EventShareRevoked)
	return nil
}

// Lookup returns the public metadata of a shared project.
func (s *Service) Lookup(ctx context.Context, token string) (Metadata, error) {
	project, errProject := store.SharedProject(ctx, s.db, token)
	if errProject != nil {
		return Metadata{}, errProject
	}
	return s.metadata(ctx, project)
}

// Verify checks the supplied password against the project's mobile number
// and issues a viewer access token.
func (s *Service) Verify(ctx context.Context, token, password, clientIP string) (Access, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return Access{}, apperr.Validation(apperr.MsgPasswordRequired)
	}
	project, errProject := store.SharedProject(ctx, s.db, token)
	if errProject != nil {
		return Access{}, errProject
	}
	if s.limiter != nil {
		result, errLimit := s.limiter.Allow(ctx, ratelimit.KeyForShareVerify(token, clientIP))
		if errLimit != nil {
			log.WithError(errLimit).Warn("share verify: rate limiter failed")
		} else if !result.Allowed {
			metrics.ShareVerifications.WithLabelValues("limited").Inc()
			return Access{}, apperr.RateLimited(apperr.MsgRateLimited)
		}
	}
	if password != project.MobileNumber {
		metrics.ShareVerifications.WithLabelValues("rejected").Inc()
		log.WithFields(log.Fields{"project_id": project.ID, "client_ip": clientIP}).Warn("share verify: wrong password")
		return Access{}, apperr.Auth(apperr.MsgPasswordWrong)
	}

	accessToken, expiresAt, errSign := security.IssueShareToken(s.cfg.Secret, project.ID, *project.ShareToken, s.cfg.AccessExpiry)
	if errSign != nil {
		return Access{}, apperr.Unexpected("sign access token", errSign)
	}
	meta, errMeta := s.metadata(ctx, project)
	if errMeta != nil {
		return Access{}, errMeta
	}
	metrics.ShareVerifications.WithLabelValues("verified").Inc()
	return Access{Verified: true, AccessToken: accessToken, ExpiresAt: expiresAt, Project: meta}, nil
}

// authorize re-validates the share token and the viewer access token.
func (s *Service) authorize(ctx context.Context, token, accessToken string) (*models.Project, error) {
	project, errProject := store.SharedProject(ctx, s.db, token)
	if errProject != nil {
		return nil, errProject
	}
	if strings.TrimSpace(accessToken) == "" {
		return nil, apperr.Auth(apperr.MsgShareAccessRequired)
	}
	claims, errParse := security.ParseShareToken(s.cfg.Secret, accessToken)
	if errParse != nil || claims.ProjectID != project.ID || claims.ShareToken != *project.ShareToken {
		return nil, apperr.Auth(apperr.MsgShareAccessRequired)
	}
	return project, nil
}

func (s *Service) metadata(ctx context.Context, project *models.Project) (Metadata, error) {
	var owner models.User
	if errFind := s.db.WithContext(ctx).Select("name").First(&owner, "id = ?", project.UserID).Error; errFind != nil {
		return Metadata{}, apperr.Unexpected("load share owner", errFind)
	}
	return Metadata{
		ID:        project.ID,
		Name:      project.Name,
		CreatedAt: project.CreatedAt,
		Owner:     Owner{Name: owner.Name},
	}, nil
}
