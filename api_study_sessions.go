package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

type sessionDTO struct {
	ID              uint    `json:"id"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time"`
	DurationSeconds int     `json:"duration_seconds"`
}

func toSessionDTO(s StudySession) sessionDTO {
	out := sessionDTO{
		ID:              s.ID,
		StartTime:       s.StartTime.Format(time.RFC3339),
		DurationSeconds: s.DurationSeconds,
	}
	if s.EndTime != nil {
		v := s.EndTime.Format(time.RFC3339)
		out.EndTime = &v
	}
	return out
}

// parseClientTime parses browser-supplied timestamps. UTC designators are
// stripped first; the values are wall-clock times from the client.
func parseClientTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "Z")
	s = strings.TrimSuffix(s, "+00:00")
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GET /api/study-sessions
func handleListStudySessions(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var sessions []StudySession
	if err := DB.Where("user_id = ?", id.UserID).
		Order("created_at DESC").Limit(10).Find(&sessions).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	out := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionDTO(s))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/study-sessions
// sendBeacon delivers the body as text/plain on page unload, so the
// payload is decoded from the raw body regardless of Content-Type.
func handleCreateStudySession(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid body")
		return
	}
	var in struct {
		StartTime       string `json:"start_time"`
		EndTime         string `json:"end_time"`
		DurationSeconds int    `json:"duration_seconds"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	start, ok := parseClientTime(in.StartTime)
	if !ok {
		errorJSON(w, http.StatusBadRequest, "invalid start_time")
		return
	}
	s := StudySession{
		UserID:          id.UserID,
		StartTime:       start,
		DurationSeconds: in.DurationSeconds,
	}
	if end, ok := parseClientTime(in.EndTime); ok {
		s.EndTime = &end
	}
	if err := DB.Create(&s).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": s.ID, "success": true})
}

// GET /api/study-sessions/total
func handleStudyTotal(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var total int64
	if err := DB.Model(&StudySession{}).Where("user_id = ?", id.UserID).
		Select("COALESCE(SUM(duration_seconds), 0)").Scan(&total).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"total_seconds": total})
}

/* ---------------- Bucketed aggregation ---------------- */

type dayBucket struct {
	Date    string `json:"date"`
	Seconds int64  `json:"seconds"`
}

func sumDurationSince(userID uint, start time.Time) (int64, error) {
	var n int64
	err := DB.Model(&StudySession{}).
		Where("user_id = ? AND start_time >= ?", userID, start).
		Select("COALESCE(SUM(duration_seconds), 0)").Scan(&n).Error
	return n, err
}

func sumDurationBetween(userID uint, start, end time.Time) (int64, error) {
	var n int64
	err := DB.Model(&StudySession{}).
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, start, end).
		Select("COALESCE(SUM(duration_seconds), 0)").Scan(&n).Error
	return n, err
}

// studyStats computes the calendar windows at the given moment, local
// clock, day boundaries at midnight. Windows overlap on purpose: today's
// total is part of week, month and year.
func studyStats(userID uint, now time.Time) (map[string]any, error) {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// week starts on Monday
	weekStart := todayStart.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	today, err := sumDurationSince(userID, todayStart)
	if err != nil {
		return nil, err
	}
	week, err := sumDurationSince(userID, weekStart)
	if err != nil {
		return nil, err
	}
	month, err := sumDurationSince(userID, monthStart)
	if err != nil {
		return nil, err
	}
	year, err := sumDurationSince(userID, yearStart)
	if err != nil {
		return nil, err
	}

	last7 := make([]dayBucket, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := todayStart.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		secs, err := sumDurationBetween(userID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		last7 = append(last7, dayBucket{Date: dayStart.Format("02/01"), Seconds: secs})
	}

	return map[string]any{
		"today":       today,
		"week":        week,
		"month":       month,
		"year":        year,
		"last_7_days": last7,
	}, nil
}

// GET /api/study-sessions/stats
func handleStudyStats(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	stats, err := studyStats(id.UserID, time.Now())
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
