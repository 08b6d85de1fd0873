package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/sharing"
)

// ShareAccessHeader carries a viewer access token on shared reads.
const ShareAccessHeader = "X-Share-Access"

// ShareHandler serves share link management and the public shared views.
type ShareHandler struct {
	sharing *sharing.Service
	baseURL string
}

// NewShareHandler constructs a ShareHandler building links under baseURL.
func NewShareHandler(svc *sharing.Service, baseURL string) *ShareHandler {
	return &ShareHandler{sharing: svc, baseURL: baseURL}
}

// Issue shares a project and returns its link.
func (h *ShareHandler) Issue(c *gin.Context) {
	link, errIssue := h.sharing.Issue(c.Request.Context(), getUserID(c), c.Param("id"), h.baseURL)
	if errIssue != nil {
		respondError(c, errIssue, apperr.MsgShareCreateFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"shareUrl":        link.ShareURL,
		"shareToken":      link.ShareToken,
		"whatsappMessage": link.WhatsAppMessage,
		"project":         link.Project,
	})
}

// Revoke stops sharing a project.
func (h *ShareHandler) Revoke(c *gin.Context) {
	if errRevoke := h.sharing.Revoke(c.Request.Context(), getUserID(c), c.Param("id")); errRevoke != nil {
		respondError(c, errRevoke, apperr.MsgShareRevokeFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": apperr.MsgShareRevoked})
}

// Lookup returns the public metadata of a shared project.
func (h *ShareHandler) Lookup(c *gin.Context) {
	meta, errLookup := h.sharing.Lookup(c.Request.Context(), c.Param("token"))
	if errLookup != nil {
		respondError(c, errLookup, apperr.MsgProjectLoadFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": meta})
}

type verifyRequest struct {
	Password string `json:"password"`
}

// Verify checks the share password and returns a viewer access token.
func (h *ShareHandler) Verify(c *gin.Context) {
	var body verifyRequest
	if !bindJSON(c, &body) {
		return
	}
	access, errVerify := h.sharing.Verify(c.Request.Context(), c.Param("token"), body.Password, c.ClientIP())
	if errVerify != nil {
		respondError(c, errVerify, apperr.MsgShareVerifyFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"verified":    access.Verified,
		"accessToken": access.AccessToken,
		"expiresAt":   access.ExpiresAt,
		"project":     access.Project,
	})
}

// Records returns the shared project's records grouped by raiyat.
func (h *ShareHandler) Records(c *gin.Context) {
	view, errRecords := h.sharing.Records(c.Request.Context(), c.Param("token"), accessToken(c))
	if errRecords != nil {
		respondError(c, errRecords, apperr.MsgRecordsLoadFailed)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Overview returns the shared project's dashboard.
func (h *ShareHandler) Overview(c *gin.Context) {
	overview, errOverview := h.sharing.Overview(c.Request.Context(), c.Param("token"), accessToken(c))
	if errOverview != nil {
		respondError(c, errOverview, apperr.MsgOverviewLoadFailed)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// accessToken reads the viewer token from X-Share-Access or a bearer header.
func accessToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(ShareAccessHeader)); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return strings.TrimSpace(token)
}
