package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/http/middleware"
	log "github.com/sirupsen/logrus"
)

// ContextUserID is the gin context key holding the signed-in user id.
const ContextUserID = "userID"

// getUserID returns the signed-in user id set by the session middleware.
func getUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Unexpected errors are logged
// and surface only the localized fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusOf(apperr.KindOf(err))
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"request_id": middleware.GetRequestID(c),
			"path":       c.FullPath(),
		}).Error("request failed")
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": apperr.MessageOf(err, fallback)})
}

// bindJSON decodes the request body, answering 400 on failure.
func bindJSON(c *gin.Context, body any) bool {
	if errBind := c.ShouldBindJSON(body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MsgInvalidRequest})
		return false
	}
	return true
}
