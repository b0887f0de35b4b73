package main

import (
	"fmt"
	"net/http"
	"time"
)

type exportNote struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type exportFolder struct {
	Name      string       `json:"name"`
	CreatedAt string       `json:"created_at"`
	Notes     []exportNote `json:"notes"`
}

// GET /api/export/notes
func handleExportNotes(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var folders []Folder
	if err := DB.Preload("Notes").Where("user_id = ?", id.UserID).
		Order("created_at ASC").Find(&folders).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "export failed")
		return
	}

	out := make([]exportFolder, 0, len(folders))
	for _, f := range folders {
		ef := exportFolder{
			Name:      f.Name,
			CreatedAt: f.CreatedAt.Format(time.RFC3339),
			Notes:     make([]exportNote, 0, len(f.Notes)),
		}
		for _, n := range f.Notes {
			ef.Notes = append(ef.Notes, exportNote{
				Title:     n.Title,
				Content:   n.Content,
				CreatedAt: n.CreatedAt.Format(time.RFC3339),
				UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
			})
		}
		out = append(out, ef)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":        map[string]string{"name": id.Name, "email": id.Email},
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"folders":     out,
	})
}

type exportSession struct {
	Date              string  `json:"date"`
	StartTime         string  `json:"start_time"`
	EndTime           *string `json:"end_time"`
	DurationSeconds   int     `json:"duration_seconds"`
	DurationFormatted string  `json:"duration_formatted"`
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%dh %dmin %ds", secs/3600, (secs%3600)/60, secs%60)
}

// GET /api/export/stats
func handleExportStats(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var sessions []StudySession
	if err := DB.Where("user_id = ?", id.UserID).
		Order("start_time DESC").Find(&sessions).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "export failed")
		return
	}

	totalSeconds := 0
	out := make([]exportSession, 0, len(sessions))
	for _, s := range sessions {
		totalSeconds += s.DurationSeconds
		es := exportSession{
			Date:              s.StartTime.Format("2006-01-02"),
			StartTime:         s.StartTime.Format(time.RFC3339),
			DurationSeconds:   s.DurationSeconds,
			DurationFormatted: formatDuration(s.DurationSeconds),
		}
		if s.EndTime != nil {
			v := s.EndTime.Format(time.RFC3339)
			es.EndTime = &v
		}
		out = append(out, es)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":               map[string]string{"name": id.Name, "email": id.Email},
		"exported_at":        time.Now().UTC().Format(time.RFC3339),
		"total_sessions":     len(sessions),
		"total_time_seconds": totalSeconds,
		"sessions":           out,
	})
}
