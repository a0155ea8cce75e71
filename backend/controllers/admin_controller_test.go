package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-academy/backend/models"
)

func data(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	require.Equal(t, true, result["success"])
	d, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "response carries no data")
	return d
}

func TestAdminRequiresAdminRole(t *testing.T) {
	resp := request(t, "POST", "/api/admin/courses", studentToken, map[string]string{
		"title": "Sneaky",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Admin access required", body["message"])

	resp = request(t, "GET", "/api/admin/stats", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminCourseLifecycle(t *testing.T) {
	// Create
	resp := request(t, "POST", "/api/admin/courses", adminToken, map[string]interface{}{
		"title":      "Admin Metaphysics",
		"category":   "philosophy",
		"instructor": "Prof. Quine",
		"price":      49.99,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	course := data(t, decode(t, resp))
	courseID := uint(course["ID"].(float64))
	assert.Equal(t, "sequential", course["AccessType"])

	// Update
	resp = request(t, "PUT", fmt.Sprintf("/api/admin/courses/%d", courseID), adminToken, map[string]interface{}{
		"published": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, data(t, decode(t, resp))["Published"])

	// Access config
	resp = request(t, "PUT", fmt.Sprintf("/api/admin/courses/%d/access", courseID), adminToken, map[string]interface{}{
		"access_type": "weekly",
		"allow_skip":  true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	access := data(t, decode(t, resp))
	assert.Equal(t, "weekly", access["accessType"])
	assert.Equal(t, true, access["allowSkip"])

	resp = request(t, "PUT", fmt.Sprintf("/api/admin/courses/%d/access", courseID), adminToken, map[string]interface{}{
		"access_type": "whenever",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Delete
	resp = request(t, "DELETE", fmt.Sprintf("/api/admin/courses/%d", courseID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, "PUT", fmt.Sprintf("/api/admin/courses/%d", courseID), adminToken, map[string]interface{}{})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminModuleAndLessonLifecycle(t *testing.T) {
	resp := request(t, "POST", "/api/admin/courses", adminToken, map[string]interface{}{
		"title": "Admin Curriculum",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	courseID := uint(data(t, decode(t, resp))["ID"].(float64))

	// Modules default to the next order slot.
	resp = request(t, "POST", fmt.Sprintf("/api/admin/courses/%d/modules", courseID), adminToken, map[string]interface{}{
		"title": "Module One",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	module := data(t, decode(t, resp))
	moduleID := module["ID"].(string)
	assert.Equal(t, float64(1), module["SequenceOrder"])

	// Lessons validate content against their type.
	resp = request(t, "POST", fmt.Sprintf("/api/admin/courses/%d/modules/%s/lessons", courseID, moduleID), adminToken, map[string]interface{}{
		"title": "Broken video",
		"type":  "video",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	addLesson := func(title, content string) string {
		resp := request(t, "POST", fmt.Sprintf("/api/admin/courses/%d/modules/%s/lessons", courseID, moduleID), adminToken, map[string]interface{}{
			"title":   title,
			"type":    "text",
			"content": content,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		return data(t, decode(t, resp))["ID"].(string)
	}

	l1 := addLesson("First", "one")
	l2 := addLesson("Second", "two")
	l3 := addLesson("Third", "three")

	// Per-lesson access rule override.
	resp = request(t, "PUT", fmt.Sprintf("/api/admin/courses/%d/modules/%s/lessons/%s", courseID, moduleID, l3), adminToken, map[string]interface{}{
		"access_rule": "anytime",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "anytime", data(t, decode(t, resp))["AccessRule"])

	// Deleting the middle lesson closes the order gap.
	resp = request(t, "DELETE", fmt.Sprintf("/api/admin/courses/%d/modules/%s/lessons/%s", courseID, moduleID, l2), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rest []models.Lesson
	require.NoError(t, db.Where("module_id = ?", moduleID).Order("sequence_order").Find(&rest).Error)
	require.Len(t, rest, 2)
	assert.Equal(t, l1, rest[0].ID)
	assert.Equal(t, 1, rest[0].SequenceOrder)
	assert.Equal(t, l3, rest[1].ID)
	assert.Equal(t, 2, rest[1].SequenceOrder)

	// Dropping the module takes its lessons with it.
	resp = request(t, "DELETE", fmt.Sprintf("/api/admin/courses/%d/modules/%s", courseID, moduleID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Lesson{}).Where("module_id = ?", moduleID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAdminStats(t *testing.T) {
	resp := request(t, "GET", "/api/admin/stats", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.GreaterOrEqual(t, result["courses"].(float64), float64(0))
	assert.GreaterOrEqual(t, result["students"].(float64), float64(1))
	assert.NotNil(t, result["enrollments"])
}
