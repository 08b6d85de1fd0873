package payments

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
	"gorm.io/gorm"
)

// Payment is the wire view of a stored payment.
type Payment struct {
	ID             string               `json:"id"`
	ProjectID      string               `json:"projectId"`
	ProjectName    string               `json:"projectName,omitempty"`
	TotalAmount    float64              `json:"totalAmount"`
	ReceivedAmount float64              `json:"receivedAmount"`
	PendingAmount  float64              `json:"pendingAmount"`
	PaymentDate    string               `json:"paymentDate"`
	Status         models.PaymentStatus `json:"status"`
	PaymentType    models.PaymentType   `json:"paymentType"`
	Description    string               `json:"description"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// FromModel converts a stored payment to its wire view.
func FromModel(p models.Payment) Payment {
	return Payment{
		ID:             p.ID,
		ProjectID:      p.ProjectID,
		TotalAmount:    p.TotalAmount,
		ReceivedAmount: p.ReceivedAmount,
		PendingAmount:  p.PendingAmount,
		PaymentDate:    p.PaymentDate,
		Status:         p.Status,
		PaymentType:    p.PaymentType,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// CreateInput carries the fields of a new payment.
type CreateInput struct {
	ProjectID      string
	TotalAmount    float64
	ReceivedAmount float64
	PaymentDate    string
	PaymentType    string
	Description    string
}

// UpdateInput carries a partial payment update. Nil fields keep their value.
type UpdateInput struct {
	TotalAmount    *float64
	ReceivedAmount *float64
	PaymentDate    *string
	PaymentType    *string
	Description    *string
}

// Service manages payments of projects owned by the acting user.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService constructs a Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create records a new payment for a project owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Payment, error) {
	if strings.TrimSpace(in.ProjectID) == "" {
		return Payment{}, apperr.Validation(apperr.MsgProjectIDRequired)
	}
	if errAmounts := ValidateAmounts(in.TotalAmount, in.ReceivedAmount); errAmounts != nil {
		return Payment{}, errAmounts
	}
	paymentType, errType := ParseType(in.PaymentType)
	if errType != nil {
		return Payment{}, errType
	}
	paymentDate, errDate := ParseDate(in.PaymentDate, s.now())
	if errDate != nil {
		return Payment{}, errDate
	}
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, in.ProjectID)
	if errProject != nil {
		return Payment{}, errProject
	}

	derived := Derive(in.TotalAmount, in.ReceivedAmount)
	payment := models.Payment{
		ProjectID:      project.ID,
		TotalAmount:    in.TotalAmount,
		ReceivedAmount: in.ReceivedAmount,
		PendingAmount:  derived.PendingAmount,
		PaymentDate:    paymentDate,
		Status:         derived.Status,
		PaymentType:    paymentType,
		Description:    strings.TrimSpace(in.Description),
	}
	if errCreate := s.db.WithContext(ctx).Create(&payment).Error; errCreate != nil {
		return Payment{}, apperr.Unexpected("create payment", errCreate)
	}
	log.WithFields(log.Fields{
		"project_id": project.ID,
		"payment_id": payment.ID,
		"status":     payment.Status,
	}).Info("payment created")
	metrics.Record(metrics.EventPaymentCreated)

	out := FromModel(payment)
	out.ProjectName = project.Name
	return out, nil
}

// Update applies a partial update and recomputes the derived fields.
func (s *Service) Update(ctx context.Context, ownerID, paymentID string, in UpdateInput) (Payment, error) {
	payment, project, errLoad := s.owned(ctx, ownerID, paymentID)
	if errLoad != nil {
		return Payment{}, errLoad
	}

	total := payment.TotalAmount
	if in.TotalAmount != nil {
		total = *in.TotalAmount
	}
	received := payment.ReceivedAmount
	if in.ReceivedAmount != nil {
		received = *in.ReceivedAmount
	}
	if errAmounts := ValidateAmounts(total, received); errAmounts != nil {
		return Payment{}, errAmounts
	}
	paymentType := payment.PaymentType
	if in.PaymentType != nil {
		parsed, errType := ParseType(*in.PaymentType)
		if errType != nil {
			return Payment{}, errType
		}
		paymentType = parsed
	}
	paymentDate := payment.PaymentDate
	if in.PaymentDate != nil {
		parsed, errDate := ParseDate(*in.PaymentDate, s.now())
		if errDate != nil {
			return Payment{}, errDate
		}
		paymentDate = parsed
	}
	description := payment.Description
	if in.Description != nil {
		description = strings.TrimSpace(*in.Description)
	}

	derived := Derive(total, received)
	updates := map[string]any{
		"total_amount":    total,
		"received_amount": received,
		"pending_amount":  derived.PendingAmount,
		"status":          derived.Status,
		"payment_type":    paymentType,
		"payment_date":    paymentDate,
		"description":     description,
		"updated_at":      s.now(),
	}
	if errUpdate := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", payment.ID).Updates(updates).Error; errUpdate != nil {
		return Payment{}, apperr.Unexpected("update payment", errUpdate)
	}

	var fresh models.Payment
	if errFind := s.db.WithContext(ctx).First(&fresh, "id = ?", payment.ID).Error; errFind != nil {
		return Payment{}, apperr.Unexpected("reload payment", errFind)
	}
	log.WithFields(log.Fields{
		"project_id": project.ID,
		"payment_id": fresh.ID,
		"status":     fresh.Status,
	}).Info("payment updated")
	metrics.Record(metrics.EventPaymentUpdated)

	out := FromModel(fresh)
	out.ProjectName = project.Name
	return out, nil
}

// Delete removes a payment.
func (s *Service) Delete(ctx context.Context, ownerID, paymentID string) error {
	payment, project, errLoad := s.owned(ctx, ownerID, paymentID)
	if errLoad != nil {
		return errLoad
	}
	if errDelete := s.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", payment.ID).Error; errDelete != nil {
		return apperr.Unexpected("delete payment", errDelete)
	}
	log.WithFields(log.Fields{
		"project_id": project.ID,
		"payment_id": payment.ID,
	}).Info("payment deleted")
	metrics.Record(metrics.EventPaymentDeleted)
	return nil
}

// ListByProject returns the payments of one project, newest first.
func (s *Service) ListByProject(ctx context.Context, ownerID, projectID string) ([]Payment, error) {
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, projectID)
	if errProject != nil {
		return nil, errProject
	}
	var rows []models.Payment
	if errFind := s.db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Order("created_at DESC").
		Find(&rows).Error; errFind != nil {
		return nil, apperr.Unexpected("list payments", errFind)
	}
	out := make([]Payment, 0, len(rows))
	for _, row := range rows {
		item := FromModel(row)
		item.ProjectName = project.Name
		out = append(out, item)
	}
	return out, nil
}

// ListByUser returns the payments of every project owned by ownerID, newest first.
func (s *Service) ListByUser(ctx context.Context, ownerID string) ([]Payment, error) {
	// paymentRow carries a payment joined with its project name.
	type paymentRow struct {
		models.Payment
		ProjectName string
	}
	var rows []paymentRow
	if errFind := s.db.WithContext(ctx).
		Table("payments").
		Select("payments.*, projects.name AS project_name").
		Joins("JOIN projects ON projects.id = payments.project_id").
		Where("projects.user_id = ?", ownerID).
		Order("payments.created_at DESC").
		Scan(&rows).Error; errFind != nil {
		return nil, apperr.Unexpected("list user payments", errFind)
	}
	out := make([]Payment, 0, len(rows))
	for _, row := range rows {
		item := FromModel(row.Payment)
		item.ProjectName = row.ProjectName
		out = append(out, item)
	}
	return out, nil
}

// owned loads a payment together with its project, masking payments of
// projects not owned by ownerID as not found.
func (s *Service) owned(ctx context.Context, ownerID, paymentID string) (*models.Payment, *models.Project, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, nil, apperr.NotFound(apperr.MsgPaymentNotFound)
	}
	var payment models.Payment
	if errFind := s.db.WithContext(ctx).First(&payment, "id = ?", paymentID).Error; errFind != nil {
		if dbutil.IsNotFound(errFind) {
			return nil, nil, apperr.NotFound(apperr.MsgPaymentNotFound)
		}
		return nil, nil, apperr.Unexpected("load payment", errFind)
	}
	project, errProject := store.OwnedProject(ctx, s.db, ownerID, payment.ProjectID)
	if errProject != nil {
		if apperr.Is(errProject, apperr.KindNotFound) {
			return nil, nil, apperr.NotFound(apperr.MsgPaymentNotFound)
		}
		return nil, nil, errProject
	}
	return &payment, project, nil
}
