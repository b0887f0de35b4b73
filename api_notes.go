package main

import (
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"
)

type noteDTO struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	FolderID  uint   `json:"folder_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toNoteDTO(n Note) noteDTO {
	return noteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		FolderID:  n.FolderID,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
	}
}

// ownedNote walks the note -> folder -> user chain. A note in another
// user's folder answers exactly like an unknown id.
func ownedNote(userID, noteID uint) (*Note, error) {
	var n Note
	if err := DB.First(&n, "id = ?", noteID).Error; err != nil {
		return nil, err
	}
	if _, err := ownedFolder(userID, n.FolderID); err != nil {
		return nil, err
	}
	return &n, nil
}

// GET /api/folders/{id}/notes
func handleListNotes(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	folderID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}
	if _, err := ownedFolder(id.UserID, folderID); err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(w, http.StatusNotFound, "not found")
		} else {
			errorJSON(w, http.StatusInternalServerError, "db error")
		}
		return
	}

	var notes []Note
	if err := DB.Where("folder_id = ?", folderID).Order("created_at ASC").Find(&notes).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	out := make([]noteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteDTO(n))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/notes
func handleCreateNote(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var in struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		FolderID uint   `json:"folder_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		errorJSON(w, http.StatusBadRequest, "title is required")
		return
	}
	if _, err := ownedFolder(id.UserID, in.FolderID); err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(w, http.StatusNotFound, "not found")
		} else {
			errorJSON(w, http.StatusInternalServerError, "db error")
		}
		return
	}

	n := Note{Title: in.Title, Content: in.Content, FolderID: in.FolderID}
	if err := DB.Create(&n).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusCreated, toNoteDTO(n))
}

// PUT /api/notes/{id}
func handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	noteID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}

	n, err := ownedNote(id.UserID, noteID)
	if err == gorm.ErrRecordNotFound {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	// Absent fields keep their value; UpdatedAt refreshes on save.
	var in struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if err := DB.Save(n).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, toNoteDTO(*n))
}

// DELETE /api/notes/{id}
func handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	noteID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}

	n, err := ownedNote(id.UserID, noteID)
	if err == gorm.ErrRecordNotFound {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	if err := DB.Delete(n).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
