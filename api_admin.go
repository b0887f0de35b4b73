package main

import (
	"net/http"
	"time"

	"gorm.io/gorm"
)

type adminUserDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
	FoldersCount int    `json:"folders_count"`
}

// GET /api/admin/users
func handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	var users []User
	if err := DB.Preload("Folders").Order("created_at ASC").Find(&users).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	out := make([]adminUserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserDTO{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			IsAdmin:      u.IsAdmin,
			CreatedAt:    u.CreatedAt.Format(time.RFC3339),
			FoldersCount: len(u.Folders),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// deleteUserCascade removes a user and everything the user transitively
// owns, inside one transaction.
func deleteUserCascade(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var folderIDs []uint
		if err := tx.Model(&Folder{}).Where("user_id = ?", userID).
			Pluck("id", &folderIDs).Error; err != nil {
			return err
		}
		if len(folderIDs) > 0 {
			if err := tx.Where("folder_id IN ?", folderIDs).Delete(&Note{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&Folder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&StudySession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&RoutineTask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&User{}, userID).Error
	})
}

// DELETE /api/admin/users/{id}
func handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	targetID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}
	if targetID == id.UserID {
		failJSON(w, http.StatusBadRequest, "you cannot delete your own account")
		return
	}

	var u User
	if err := DB.First(&u, "id = ?", targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(w, http.StatusNotFound, "not found")
		} else {
			errorJSON(w, http.StatusInternalServerError, "db error")
		}
		return
	}
	if err := deleteUserCascade(DB, u.ID); err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "user deleted"})
}

// POST /api/admin/users/{id}/toggle-admin
func handleAdminToggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	targetID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}
	if targetID == id.UserID {
		failJSON(w, http.StatusBadRequest, "you cannot change your own admin status")
		return
	}

	var u User
	if err := DB.First(&u, "id = ?", targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(w, http.StatusNotFound, "not found")
		} else {
			errorJSON(w, http.StatusInternalServerError, "db error")
		}
		return
	}
	u.IsAdmin = !u.IsAdmin
	if err := DB.Save(&u).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "is_admin": u.IsAdmin})
}
