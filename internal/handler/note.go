package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mdkhajajamaludin/wellness/internal/model"
	"github.com/mdkhajajamaludin/wellness/internal/queue"
	"github.com/mdkhajajamaludin/wellness/internal/repository"
)

// NoteStore is the persistence used by the notes endpoints.  Update and
// delete are owner-scoped and report repository.ErrNoteNotFound for both a
// missing note and a note owned by someone else.
type NoteStore interface {
	List(ctx context.Context, f model.ListFilter) ([]*model.Note, error)
	Create(ctx context.Context, n *model.Note) (*model.Note, error)
	UpdateByIDAndOwner(ctx context.Context, id int64, ownerID, title string, content *string) (*model.Note, error)
	DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error
}

const noteNotFound = "Note not found or access denied"

// ListNotes handles GET /api/notes?user_id=
func (h *RecordHandler) ListNotes(c echo.Context) error {
	f, err := parseListFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	items, err := h.Notes.List(c.Request().Context(), f)
	if err != nil {
		return h.storeFailure(c, ResourceNotes, "list", err, "Failed to fetch notes")
	}
	return c.JSON(http.StatusOK, items)
}

// CreateNote handles POST /api/notes.  title is required.
func (h *RecordHandler) CreateNote(c echo.Context) error {
	var body struct {
		UserID  *string `json:"user_id"`
		Title   string  `json:"title"`
		Content *string `json:"content"`
	}
	if err := bindJSON(c, &body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !required(body.Title) {
		return badRequest(c, "title is required")
	}
	n, err := h.Notes.Create(c.Request().Context(), &model.Note{
		UserID:  body.UserID,
		Title:   body.Title,
		Content: body.Content,
	})
	if err != nil {
		return h.storeFailure(c, ResourceNotes, "create", err, "Failed to create note")
	}
	h.emit(queue.EventCreated, ResourceNotes, n.ID, deref(n.UserID))
	return c.JSON(http.StatusCreated, n)
}

// UpdateNote handles PUT /api/notes/:id.  The owner comes from the body's
// user_id; a missing owner, a missing note and a foreign note all answer 404.
func (h *RecordHandler) UpdateNote(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		UserID  string  `json:"user_id"`
		Title   string  `json:"title"`
		Content *string `json:"content"`
	}
	if err := bindJSON(c, &body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.UserID == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": noteNotFound})
	}
	if !required(body.Title) {
		return badRequest(c, "title is required")
	}
	n, err := h.Notes.UpdateByIDAndOwner(c.Request().Context(), id, body.UserID, body.Title, body.Content)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": noteNotFound})
		}
		return h.storeFailure(c, ResourceNotes, "update", err, "Failed to update note")
	}
	h.emit(queue.EventUpdated, ResourceNotes, n.ID, body.UserID)
	return c.JSON(http.StatusOK, n)
}

// DeleteNote handles DELETE /api/notes/:id?user_id=
func (h *RecordHandler) DeleteNote(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	owner := c.QueryParam("user_id")
	if err := h.Notes.DeleteByIDAndOwner(c.Request().Context(), id, owner); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": noteNotFound})
		}
		return h.storeFailure(c, ResourceNotes, "delete", err, "Failed to delete note")
	}
	h.emit(queue.EventDeleted, ResourceNotes, id, owner)
	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted successfully"})
}
