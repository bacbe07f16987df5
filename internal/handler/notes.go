package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkpad/backend/internal/model"
	"github.com/inkpad/backend/internal/service"
)

type NoteHandler struct {
	svc *service.NoteService
}

func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// Upsert godoc
// @Summary Create or update a note
// @Description Without an id a new note is created; with an id the caller's note is updated in place.
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpsertNoteRequest true "Note payload"
// @Success 200 {object} model.Note
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /notes [post]
func (h *NoteHandler) Upsert(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.UpsertNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	note, err := h.svc.Upsert(c.Request.Context(), user.ID, req)
	if err != nil {
		writeNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// List godoc
// @Summary List the caller's notes
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Note
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	notes, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		writeNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Delete godoc
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not found"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, noteID); err != nil {
		writeNoteError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func writeNoteError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoteNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}
