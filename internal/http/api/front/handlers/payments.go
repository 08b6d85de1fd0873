package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/payments"
)

// PaymentHandler serves payment endpoints.
type PaymentHandler struct {
	payments *payments.Service
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{payments: svc}
}

// List returns the payments of one project, or of every project of the user.
func (h *PaymentHandler) List(c *gin.Context) {
	userID := getUserID(c)
	projectID := strings.TrimSpace(c.Query("projectId"))
	requestedUser := strings.TrimSpace(c.Query("userId"))

	var (
		list    []payments.Payment
		errList error
	)
	switch {
	case projectID != "":
		list, errList = h.payments.ListByProject(c.Request.Context(), userID, projectID)
	case requestedUser != "":
		if requestedUser != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": apperr.MsgUserNotFound})
			return
		}
		list, errList = h.payments.ListByUser(c.Request.Context(), userID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MsgProjectIDRequired})
		return
	}
	if errList != nil {
		respondError(c, errList, apperr.MsgPaymentsLoadFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

type createPaymentRequest struct {
	ProjectID      string  `json:"projectId"`
	TotalAmount    float64 `json:"totalAmount"`
	ReceivedAmount float64 `json:"receivedAmount"`
	PaymentDate    string  `json:"paymentDate"`
	PaymentType    string  `json:"paymentType"`
	Description    string  `json:"description"`
}

// Create records a payment against a project.
func (h *PaymentHandler) Create(c *gin.Context) {
	var body createPaymentRequest
	if !bindJSON(c, &body) {
		return
	}
	payment, errCreate := h.payments.Create(c.Request.Context(), getUserID(c), payments.CreateInput{
		ProjectID:      body.ProjectID,
		TotalAmount:    body.TotalAmount,
		ReceivedAmount: body.ReceivedAmount,
		PaymentDate:    body.PaymentDate,
		PaymentType:    body.PaymentType,
		Description:    body.Description,
	})
	if errCreate != nil {
		respondError(c, errCreate, apperr.MsgPaymentSaveFailed)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

type updatePaymentRequest struct {
	TotalAmount    *float64 `json:"totalAmount"`
	ReceivedAmount *float64 `json:"receivedAmount"`
	PaymentDate    *string  `json:"paymentDate"`
	PaymentType    *string  `json:"paymentType"`
	Description    *string  `json:"description"`
}

// Update applies a partial update to a payment.
func (h *PaymentHandler) Update(c *gin.Context) {
	var body updatePaymentRequest
	if !bindJSON(c, &body) {
		return
	}
	payment, errUpdate := h.payments.Update(c.Request.Context(), getUserID(c), c.Param("id"), payments.UpdateInput{
		TotalAmount:    body.TotalAmount,
		ReceivedAmount: body.ReceivedAmount,
		PaymentDate:    body.PaymentDate,
		PaymentType:    body.PaymentType,
		Description:    body.Description,
	})
	if errUpdate != nil {
		respondError(c, errUpdate, apperr.MsgPaymentSaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// Delete removes a payment.
func (h *PaymentHandler) Delete(c *gin.Context) {
	if errDelete := h.payments.Delete(c.Request.Context(), getUserID(c), c.Param("id")); errDelete != nil {
		respondError(c, errDelete, apperr.MsgPaymentDeleteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": apperr.MsgPaymentDeleted})
}
