package main

import (
	"fmt"
	"net/http"
	"testing"
)

func createTask(t *testing.T, r http.Handler, cookie *http.Cookie, title string) uint {
	t.Helper()
	rr := doJSON(r, "POST", "/api/routine/tasks", map[string]string{
		"title": title, "category": "study",
		"start_time": "08:00", "end_time": "09:00",
		"days": "monday,wednesday",
	}, cookie)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create task: got status %d body %s", rr.Code, rr.Body.String())
	}
	out := decodeBody[map[string]any](t, rr)
	return uint(out["id"].(float64))
}

func TestRoutineTasks(t *testing.T) {
	resetTestDB(t)
	r := newTestRouter()
	alice := registerUser(t, r, "Alice", "alice@x.com", "secret1")
	bob := registerUser(t, r, "Bob", "bob@x.com", "secret1")

	t.Run("order index grows from zero", func(t *testing.T) {
		first := createTask(t, r, alice, "Algebra")
		second := createTask(t, r, alice, "Geometry")

		var a, b RoutineTask
		DB.First(&a, first)
		DB.First(&b, second)
		if a.OrderIndex != 0 || b.OrderIndex != 1 {
			t.Errorf("order indices = %d, %d; want 0, 1", a.OrderIndex, b.OrderIndex)
		}
	})

	t.Run("order index is per user", func(t *testing.T) {
		id := createTask(t, r, bob, "Reading")
		var task RoutineTask
		DB.First(&task, id)
		if task.OrderIndex != 0 {
			t.Errorf("bob's first task order = %d, want 0", task.OrderIndex)
		}
	})

	t.Run("list splits days and orders by index", func(t *testing.T) {
		rr := doJSON(r, "GET", "/api/routine/tasks", nil, alice)
		tasks := decodeBody[[]routineTaskDTO](t, rr)
		if len(tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(tasks))
		}
		if tasks[0].Title != "Algebra" || len(tasks[0].Days) != 2 {
			t.Errorf("unexpected first task: %+v", tasks[0])
		}
	})

	t.Run("toggle flips completion", func(t *testing.T) {
		rr := doJSON(r, "GET", "/api/routine/tasks", nil, alice)
		tasks := decodeBody[[]routineTaskDTO](t, rr)
		id := tasks[0].ID

		rr = doJSON(r, "POST", fmt.Sprintf("/api/routine/tasks/%d/toggle", id), nil, alice)
		out := decodeBody[map[string]any](t, rr)
		if out["completed"] != true {
			t.Errorf("expected completed=true after toggle, got %v", out["completed"])
		}
		rr = doJSON(r, "POST", fmt.Sprintf("/api/routine/tasks/%d/toggle", id), nil, alice)
		out = decodeBody[map[string]any](t, rr)
		if out["completed"] != false {
			t.Errorf("expected completed=false after second toggle, got %v", out["completed"])
		}
	})

	t.Run("cross-user task access answers not found", func(t *testing.T) {
		rr := doJSON(r, "GET", "/api/routine/tasks", nil, alice)
		tasks := decodeBody[[]routineTaskDTO](t, rr)
		id := tasks[0].ID

		for _, p := range []struct{ method, path string }{
			{"PUT", fmt.Sprintf("/api/routine/tasks/%d", id)},
			{"DELETE", fmt.Sprintf("/api/routine/tasks/%d", id)},
			{"POST", fmt.Sprintf("/api/routine/tasks/%d/toggle", id)},
		} {
			rr := doJSON(r, p.method, p.path, map[string]string{"title": "x"}, bob)
			if rr.Code != http.StatusNotFound {
				t.Errorf("%s %s: got status %d, want %d", p.method, p.path, rr.Code, http.StatusNotFound)
			}
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		rr := doJSON(r, "GET", "/api/routine/tasks", nil, alice)
		tasks := decodeBody[[]routineTaskDTO](t, rr)
		id := tasks[0].ID

		rr = doJSON(r, "PUT", fmt.Sprintf("/api/routine/tasks/%d", id), map[string]string{
			"color": "#10b981",
		}, alice)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d body %s", rr.Code, rr.Body.String())
		}
		var task RoutineTask
		DB.First(&task, id)
		if task.Color != "#10b981" || task.Title != "Algebra" {
			t.Errorf("unexpected task after partial update: %+v", task)
		}
	})
}

func TestRoutineInitialize(t *testing.T) {
	resetTestDB(t)
	r := newTestRouter()
	alice := registerUser(t, r, "Alice", "alice@x.com", "secret1")

	t.Run("seeds the default schedule once", func(t *testing.T) {
		rr := doJSON(r, "POST", "/api/routine/initialize", nil, alice)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d body %s", rr.Code, rr.Body.String())
		}
		var count int64
		DB.Model(&RoutineTask{}).Count(&count)
		if int(count) != len(defaultRoutine) {
			t.Fatalf("seeded %d tasks, want %d", count, len(defaultRoutine))
		}
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		rr := doJSON(r, "POST", "/api/routine/initialize", nil, alice)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d", rr.Code)
		}
		var count int64
		DB.Model(&RoutineTask{}).Count(&count)
		if int(count) != len(defaultRoutine) {
			t.Errorf("task count after second call = %d, want %d", count, len(defaultRoutine))
		}
	})

	t.Run("seeded tasks cover order 0..N-1 on all weekdays", func(t *testing.T) {
		var tasks []RoutineTask
		DB.Order("order_index ASC").Find(&tasks)
		for i, task := range tasks {
			if task.OrderIndex != i {
				t.Errorf("task %d has order %d", i, task.OrderIndex)
			}
			if task.Days != allWeekdays {
				t.Errorf("task %q days = %q", task.Title, task.Days)
			}
		}
	})

	t.Run("create after seeding continues the order", func(t *testing.T) {
		id := createTask(t, r, alice, "Extra review")
		var task RoutineTask
		DB.First(&task, id)
		if task.OrderIndex != len(defaultRoutine) {
			t.Errorf("order = %d, want %d", task.OrderIndex, len(defaultRoutine))
		}
	})
}
