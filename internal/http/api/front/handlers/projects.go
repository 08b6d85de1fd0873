package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/projects"
)

// ProjectHandler serves project, raiyat and land record endpoints.
type ProjectHandler struct {
	projects *projects.Service
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(svc *projects.Service) *ProjectHandler {
	return &ProjectHandler{projects: svc}
}

// List returns the signed-in user's projects, optionally filtered by name.
func (h *ProjectHandler) List(c *gin.Context) {
	list, errList := h.projects.ListProjects(c.Request.Context(), getUserID(c), c.Query("search"))
	if errList != nil {
		respondError(c, errList, apperr.MsgProjectsLoadFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": list})
}

type createProjectRequest struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	UserID       string `json:"userId"`
}

// Create adds a project for the signed-in user.
func (h *ProjectHandler) Create(c *gin.Context) {
	var body createProjectRequest
	if !bindJSON(c, &body) {
		return
	}
	userID := getUserID(c)
	if requested := strings.TrimSpace(body.UserID); requested != "" && requested != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": apperr.MsgUserMissing})
		return
	}
	project, errCreate := h.projects.CreateProject(c.Request.Context(), projects.CreateProjectInput{
		Name:         body.Name,
		MobileNumber: body.MobileNumber,
		UserID:       userID,
	})
	if errCreate != nil {
		respondError(c, errCreate, apperr.MsgProjectCreateFailed)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// Get returns one project.
func (h *ProjectHandler) Get(c *gin.Context) {
	project, errGet := h.projects.GetProject(c.Request.Context(), getUserID(c), c.Param("id"))
	if errGet != nil {
		respondError(c, errGet, apperr.MsgProjectLoadFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

type updateProjectRequest struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
}

// Update renames a project or changes its mobile number.
func (h *ProjectHandler) Update(c *gin.Context) {
	var body updateProjectRequest
	if !bindJSON(c, &body) {
		return
	}
	project, errUpdate := h.projects.UpdateProject(c.Request.Context(), getUserID(c), c.Param("id"), body.Name, body.MobileNumber)
	if errUpdate != nil {
		respondError(c, errUpdate, apperr.MsgProjectUpdateFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// Delete removes a project with its raiyats, records and payments.
func (h *ProjectHandler) Delete(c *gin.Context) {
	if errDelete := h.projects.DeleteProject(c.Request.Context(), getUserID(c), c.Param("id")); errDelete != nil {
		respondError(c, errDelete, apperr.MsgProjectDeleteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": apperr.MsgProjectDeleted})
}

type raiyatRequest struct {
	Name string `json:"name"`
}

// AddRaiyat registers a raiyat name on a project.
func (h *ProjectHandler) AddRaiyat(c *gin.Context) {
	var body raiyatRequest
	if !bindJSON(c, &body) {
		return
	}
	project, errAdd := h.projects.AddRaiyat(c.Request.Context(), getUserID(c), c.Param("id"), body.Name)
	if errAdd != nil {
		respondError(c, errAdd, apperr.MsgRaiyatAddFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteRaiyat removes a raiyat and its land records.
func (h *ProjectHandler) DeleteRaiyat(c *gin.Context) {
	project, errDelete := h.projects.DeleteRaiyat(c.Request.Context(), getUserID(c), c.Param("id"), c.Param("raiyatId"))
	if errDelete != nil {
		respondError(c, errDelete, apperr.MsgRaiyatDeleteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": apperr.MsgRaiyatDeleted, "project": project})
}

// AutoColors gives every raiyat without a color one from the palette.
func (h *ProjectHandler) AutoColors(c *gin.Context) {
	project, updated, errAssign := h.projects.AutoAssignColors(c.Request.Context(), getUserID(c), c.Param("id"))
	if errAssign != nil {
		respondError(c, errAssign, apperr.MsgProjectUpdateFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project, "updatedCount": updated})
}
