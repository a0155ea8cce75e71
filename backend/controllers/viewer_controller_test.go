package controllers_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-academy/backend/models"
	"clarity-academy/backend/storage"
)

func enroll(t *testing.T, token string, courseID uint) {
	t.Helper()
	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func viewOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	view, ok := result["view"].(map[string]interface{})
	require.True(t, ok, "response carries no view")
	return view
}

func activeLesson(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	return viewOf(t, result)["lesson"].(map[string]interface{})
}

func TestViewerOpensAtFirstLesson(t *testing.T) {
	course := seedCourse(t, "Viewer Opening", models.AccessSequential, false)
	token, _ := newStudent(t, "viewer-open")
	enroll(t, token, course.ID)

	resp := request(t, "GET", fmt.Sprintf("/api/courses/%d/lesson", course.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	view := viewOf(t, result)
	lesson := activeLesson(t, result)

	assert.Equal(t, true, view["accessible"])
	assert.Equal(t, course.Modules[0].Lessons[0].ID, lesson["id"])
	assert.Equal(t, "Read me first", lesson["content"])

	// The second lesson is locked in the sidebar, the first is not.
	sidebar := view["sidebar"].([]interface{})
	require.Len(t, sidebar, 2)
	lessons := sidebar[0].(map[string]interface{})["lessons"].([]interface{})
	assert.Equal(t, false, lessons[0].(map[string]interface{})["locked"])
	assert.Equal(t, true, lessons[1].(map[string]interface{})["locked"])
}

func TestViewerJumpToLockedLessonIsIgnored(t *testing.T) {
	course := seedCourse(t, "Viewer Locked Jump", models.AccessSequential, false)
	token, _ := newStudent(t, "viewer-jump-locked")
	enroll(t, token, course.ID)

	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lesson/jump", course.ID), token, map[string]string{
		"module_id": course.Modules[1].ID,
		"lesson_id": course.Modules[1].Lessons[0].ID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	lesson := activeLesson(t, decode(t, resp))
	assert.Equal(t, course.Modules[0].Lessons[0].ID, lesson["id"], "locked jump must leave the view unchanged")
}

func TestViewerJumpWithAllowSkip(t *testing.T) {
	course := seedCourse(t, "Viewer Skip Jump", models.AccessSequential, true)
	token, _ := newStudent(t, "viewer-jump-skip")
	enroll(t, token, course.ID)

	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lesson/jump", course.ID), token, map[string]string{
		"module_id": course.Modules[0].ID,
		"lesson_id": course.Modules[0].Lessons[1].ID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	lesson := activeLesson(t, decode(t, resp))
	assert.Equal(t, course.Modules[0].Lessons[1].ID, lesson["id"])
	// Video URLs come back in embeddable form.
	assert.Equal(t, "https://www.youtube.com/embed/abc123", lesson["videoUrl"])
}

func TestViewerNextIsUngated(t *testing.T) {
	course := seedCourse(t, "Viewer Next", models.AccessSequential, false)
	token, _ := newStudent(t, "viewer-next")
	enroll(t, token, course.ID)

	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lesson/next", course.ID), token, map[string]string{
		"module_id": course.Modules[0].ID,
		"lesson_id": course.Modules[0].Lessons[0].ID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.Equal(t, true, result["advanced"])

	view := viewOf(t, result)
	lesson := view["lesson"].(map[string]interface{})
	assert.Equal(t, course.Modules[0].Lessons[1].ID, lesson["id"])
	// Forward navigation lands on a locked lesson: no content, rule exposed.
	assert.Equal(t, false, view["accessible"])
	assert.Nil(t, lesson["content"])
	assert.Equal(t, "sequential", lesson["accessRule"])
}

func TestViewerNextAtCourseEnd(t *testing.T) {
	course := seedCourse(t, "Viewer Next End", models.AccessAnytime, false)
	token, _ := newStudent(t, "viewer-next-end")
	enroll(t, token, course.ID)

	last := course.Modules[1].Lessons[0]
	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lesson/next", course.ID), token, map[string]string{
		"module_id": course.Modules[1].ID,
		"lesson_id": last.ID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.Equal(t, false, result["advanced"])
	assert.Equal(t, last.ID, activeLesson(t, result)["id"])
}

func TestViewerCompleteFlow(t *testing.T) {
	course := seedCourse(t, "Viewer Complete", models.AccessSequential, false)
	token, _ := newStudent(t, "viewer-complete")
	enroll(t, token, course.ID)

	complete := func(moduleID, lessonID string) map[string]interface{} {
		resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lesson/complete", course.ID), token, map[string]interface{}{
			"module_id": moduleID,
			"lesson_id": lessonID,
			"advance":   true,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		return decode(t, resp)
	}

	m1, m2 := course.Modules[0], course.Modules[1]

	result := complete(m1.ID, m1.Lessons[0].ID)
	assert.Equal(t, false, result["moduleCompleted"])
	assert.Equal(t, false, result["courseCompleted"])
	assert.Equal(t, m1.Lessons[1].ID, result["nextLesson"])
	assert.Equal(t, m1.Lessons[1].ID, activeLesson(t, result)["id"])

	result = complete(m1.ID, m1.Lessons[1].ID)
	assert.Equal(t, true, result["moduleCompleted"])
	assert.Equal(t, false, result["courseCompleted"])
	assert.Equal(t, m2.Lessons[0].ID, activeLesson(t, result)["id"])

	result = complete(m2.ID, m2.Lessons[0].ID)
	assert.Equal(t, true, result["moduleCompleted"])
	assert.Equal(t, true, result["courseCompleted"])
	assert.Equal(t, "", result["nextLesson"])

	// The dashboard now reports the course as finished.
	resp := request(t, "GET", "/api/dashboard/courses", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	courses := decodeList(t, resp)
	require.Len(t, courses, 1)
	assert.Equal(t, float64(100), courses[0]["progress"])
}

func TestViewerCompleteUnknownLesson(t *testing.T) {
	course := seedCourse(t, "Viewer Complete Ghost", models.AccessSequential, false)
	token, _ := newStudent(t, "viewer-complete-ghost")
	enroll(t, token, course.ID)

	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lesson/complete", course.ID), token, map[string]interface{}{
		"module_id": course.Modules[0].ID,
		"lesson_id": "ghost",
		"advance":   true,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestViewerStaleProgressFallsBack(t *testing.T) {
	course := seedCourse(t, "Viewer Stale", models.AccessSequential, false)
	token, userID := newStudent(t, "viewer-stale")
	enroll(t, token, course.ID)

	// Simulate an admin deleting the lesson the learner stopped at.
	require.NoError(t, db.Model(&models.ProgressRecord{}).
		Where("user_id = ? AND course_id = ?", userID, course.ID).
		Updates(map[string]interface{}{
			"current_module": "deleted-module",
			"current_lesson": "deleted-lesson",
		}).Error)

	resp := request(t, "GET", fmt.Sprintf("/api/courses/%d/lesson", course.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, course.Modules[0].Lessons[0].ID, activeLesson(t, decode(t, resp))["id"])

	// The repaired resume point was written back.
	progress, err := storage.NewProgressStore(db).Load(context.Background(), userID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, course.Modules[0].ID, progress.CurrentModule)
	assert.Equal(t, course.Modules[0].Lessons[0].ID, progress.CurrentLesson)
}

func TestViewerRecordsAccessHistory(t *testing.T) {
	course := seedCourse(t, "Viewer History", models.AccessSequential, false)
	token, userID := newStudent(t, "viewer-history")
	enroll(t, token, course.ID)

	firstLesson := course.Modules[0].Lessons[0].ID

	resp := request(t, "GET", fmt.Sprintf("/api/courses/%d/lesson", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = request(t, "GET", fmt.Sprintf("/api/courses/%d/lesson", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	progress, err := storage.NewProgressStore(db).Load(context.Background(), userID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	// Two visits, one entry.
	require.Len(t, progress.AccessHistory, 1)
	assert.False(t, progress.AccessHistory[firstLesson].IsZero())
}

func TestViewerEmptyCourse(t *testing.T) {
	course := models.Course{Title: "Viewer Empty", Published: true}
	require.NoError(t, db.Create(&course).Error)

	token, _ := newStudent(t, "viewer-empty")
	enroll(t, token, course.ID)

	resp := request(t, "GET", fmt.Sprintf("/api/courses/%d/lesson", course.ID), token, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "This course has no lessons yet", decode(t, resp)["error"])
}

func TestViewerCourseNotFound(t *testing.T) {
	resp := request(t, "GET", "/api/courses/999999/lesson", studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Course not found", decode(t, resp)["error"])
}

func TestViewerInvalidCourseID(t *testing.T) {
	for _, target := range []struct {
		method string
		url    string
	}{
		{"GET", "/api/courses/abc/lesson"},
		{"POST", "/api/courses/abc/lesson/jump"},
		{"POST", "/api/courses/abc/lesson/next"},
		{"POST", "/api/courses/abc/lesson/complete"},
	} {
		resp := request(t, target.method, target.url, studentToken, map[string]string{})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "%s %s", target.method, target.url)
		assert.Equal(t, "Invalid course ID", decode(t, resp)["error"])
	}
}

func TestViewerUnauthorized(t *testing.T) {
	resp := request(t, "GET", "/api/courses/1/lesson", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
