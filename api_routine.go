package main

import (
	"database/sql"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

const allWeekdays = "monday,tuesday,wednesday,thursday,friday,saturday,sunday"

type routineTaskDTO struct {
	ID         uint     `json:"id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	Days       []string `json:"days"`
	Color      string   `json:"color"`
	Completed  bool     `json:"completed"`
	OrderIndex int      `json:"order_index"`
}

func toRoutineTaskDTO(t RoutineTask) routineTaskDTO {
	return routineTaskDTO{
		ID:         t.ID,
		Title:      t.Title,
		Category:   t.Category,
		StartTime:  t.StartTime,
		EndTime:    t.EndTime,
		Days:       strings.Split(t.Days, ","),
		Color:      t.Color,
		Completed:  t.Completed,
		OrderIndex: t.OrderIndex,
	}
}

// ownedRoutineTask checks the direct user_id field; cross-user ids look
// like unknown ids.
func ownedRoutineTask(userID, taskID uint) (*RoutineTask, error) {
	var t RoutineTask
	err := DB.Where("id = ? AND user_id = ?", taskID, userID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GET /api/routine/tasks
func handleListRoutineTasks(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var tasks []RoutineTask
	if err := DB.Where("user_id = ?", id.UserID).
		Order("order_index ASC").Find(&tasks).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	out := make([]routineTaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toRoutineTaskDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

type routineTaskReq struct {
	Title     *string `json:"title"`
	Category  *string `json:"category"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Days      *string `json:"days"`
	Color     *string `json:"color"`
}

// POST /api/routine/tasks
func handleCreateRoutineTask(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var in routineTaskReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" ||
		in.Category == nil || in.StartTime == nil || in.EndTime == nil || in.Days == nil {
		errorJSON(w, http.StatusBadRequest, "title, category, start_time, end_time and days are required")
		return
	}

	// New tasks land after the current last one; holes are never filled.
	var maxOrder sql.NullInt64
	if err := DB.Model(&RoutineTask{}).Where("user_id = ?", id.UserID).
		Select("MAX(order_index)").Scan(&maxOrder).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	nextOrder := 0
	if maxOrder.Valid {
		nextOrder = int(maxOrder.Int64) + 1
	}

	t := RoutineTask{
		UserID:     id.UserID,
		Title:      strings.TrimSpace(*in.Title),
		Category:   *in.Category,
		StartTime:  *in.StartTime,
		EndTime:    *in.EndTime,
		Days:       *in.Days,
		Color:      "#6366f1",
		OrderIndex: nextOrder,
	}
	if in.Color != nil && *in.Color != "" {
		t.Color = *in.Color
	}
	if err := DB.Create(&t).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": t.ID})
}

// PUT /api/routine/tasks/{id}
func handleUpdateRoutineTask(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	taskID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}
	t, err := ownedRoutineTask(id.UserID, taskID)
	if err == gorm.ErrRecordNotFound {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}

	var in routineTaskReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.StartTime != nil {
		t.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		t.EndTime = *in.EndTime
	}
	if in.Days != nil {
		t.Days = *in.Days
	}
	if in.Color != nil {
		t.Color = *in.Color
	}
	if err := DB.Save(t).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DELETE /api/routine/tasks/{id}
func handleDeleteRoutineTask(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	taskID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}
	t, err := ownedRoutineTask(id.UserID, taskID)
	if err == gorm.ErrRecordNotFound {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	if err := DB.Delete(t).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/routine/tasks/{id}/toggle
func handleToggleRoutineTask(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)
	taskID, ok := urlID(r)
	if !ok {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}
	t, err := ownedRoutineTask(id.UserID, taskID)
	if err == gorm.ErrRecordNotFound {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	} else if err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	t.Completed = !t.Completed
	if err := DB.Save(t).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "completed": t.Completed})
}

/* ---------------- Default schedule seeding ---------------- */

var defaultRoutine = []RoutineTask{
	{Title: "Wake up and have breakfast", Category: "meals", StartTime: "07:00", EndTime: "07:30", Color: "#f59e0b"},
	{Title: "Morning study session", Category: "study", StartTime: "08:00", EndTime: "10:00", Color: "#6366f1"},
	{Title: "Break / snack", Category: "rest", StartTime: "10:00", EndTime: "10:30", Color: "#8b5cf6"},
	{Title: "Study / work", Category: "work", StartTime: "10:30", EndTime: "12:30", Color: "#3b82f6"},
	{Title: "Lunch", Category: "meals", StartTime: "12:30", EndTime: "13:30", Color: "#f59e0b"},
	{Title: "Rest", Category: "rest", StartTime: "13:30", EndTime: "14:00", Color: "#8b5cf6"},
	{Title: "Afternoon study session", Category: "study", StartTime: "14:00", EndTime: "16:00", Color: "#6366f1"},
	{Title: "Gym / exercise", Category: "gym", StartTime: "16:30", EndTime: "17:30", Color: "#10b981"},
	{Title: "Shower and rest", Category: "rest", StartTime: "17:30", EndTime: "18:00", Color: "#8b5cf6"},
	{Title: "Dinner", Category: "meals", StartTime: "18:30", EndTime: "19:30", Color: "#f59e0b"},
	{Title: "Daily review / light study", Category: "study", StartTime: "19:30", EndTime: "21:00", Color: "#6366f1"},
	{Title: "Leisure / free time", Category: "leisure", StartTime: "21:00", EndTime: "22:30", Color: "#ec4899"},
	{Title: "Get ready for bed", Category: "rest", StartTime: "22:30", EndTime: "23:00", Color: "#8b5cf6"},
}

// POST /api/routine/initialize
// A no-op when the user already has any task, so calling it twice never
// duplicates the default set.
func handleInitializeRoutine(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromRequest(r)

	var count int64
	if err := DB.Model(&RoutineTask{}).Where("user_id = ?", id.UserID).
		Count(&count).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	if count > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"message": "schedule already exists"})
		return
	}

	tasks := make([]RoutineTask, len(defaultRoutine))
	for i, d := range defaultRoutine {
		t := d
		t.UserID = id.UserID
		t.Days = allWeekdays
		t.OrderIndex = i
		tasks[i] = t
	}
	if err := DB.Create(&tasks).Error; err != nil {
		errorJSON(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "default schedule created"})
}
