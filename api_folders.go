package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type folderDTO struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at"`
	NotesCount int    `json:"notes_count"`
}

func urlID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// ownedFolder resolves a folder only when it belongs to the given user.
// Cross-user ids answer exactly like unknown ids.
func ownedFolder(userID, folderID uint) (*Folder, error) {
	var f Folder
	err := DB.Where("id = ? AND user_id = ?", folderID, userID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GET /api/folders
func handleListFolders(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var folders []Folder
	if err := DB.Preload("Notes").Where("user_id = ?", id.UserID).
		Order("created_at ASC").Find(&folders).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	out := make([]folderDTO, 0, len(folders))
	for _, f := range folders {
		out = append(out, folderDTO{
			ID:         f.ID,
			Name:       f.Name,
			CreatedAt:  f.CreatedAt.Format(time.RFC3339),
			NotesCount: len(f.Notes),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/folders
func handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		errorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	f := Folder{Name: in.Name, UserID: id.UserID}
	if err := DB.Create(&f).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         f.ID,
		"name":       f.Name,
		"created_at": f.CreatedAt.Format(time.RFC3339),
	})
}

// DELETE /api/folders/{id}
func handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	folderID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}

	f, err := ownedFolder(id.UserID, folderID)
	if err == gorm.ErrRecordNotFound {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	// Notes go with the folder.
	if err := DB.Where("folder_id = ?", f.ID).Delete(&Note{}).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	if err := DB.Delete(f).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
