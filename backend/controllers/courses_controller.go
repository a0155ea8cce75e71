package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"clarity-academy/backend/config"
	"clarity-academy/backend/lesson"
	"clarity-academy/backend/models"
	"clarity-academy/backend/storage"
	"clarity-academy/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Courses  *storage.CourseStore
	Progress *storage.ProgressStore
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{
		DB:       db,
		Cfg:      cfg,
		Courses:  storage.NewCourseStore(db),
		Progress: storage.NewProgressStore(db),
	}
}

// GetCourses godoc
// @Summary List published courses
// @Description Returns the catalog, optionally filtered by search term and category
// @Tags courses
// @Produce json
// @Param search query string false "Match against title and description"
// @Param category query string false "Exact category"
// @Success 200 {array} map[string]interface{}
// @Router /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	search := strings.ToLower(c.Query("search"))
	category := c.Query("category")

	query := cc.DB.Preload("Modules.Lessons").
		Where("published = ?", true).
		Order("title")

	if category != "" {
		query = query.Where("category = ?", category)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := []fiber.Map{}
	for _, course := range courses {
		if search != "" &&
			!strings.Contains(strings.ToLower(course.Title), search) &&
			!strings.Contains(strings.ToLower(course.Description), search) {
			continue
		}

		moduleCount := len(course.Modules)
		lessonCount := 0
		totalDuration := 0
		for _, m := range course.Modules {
			lessonCount += len(m.Lessons)
			for _, l := range m.Lessons {
				totalDuration += l.Duration
			}
		}

		result = append(result, fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
			"category":    course.Category,
			"instructor":  course.Instructor,
			"thumbnail":   course.Thumbnail,
			"price":       course.Price,
			"modules":     moduleCount,
			"lessons":     lessonCount,
			"duration":    totalDuration,
		})
	}

	return c.JSON(result)
}

// GetCourseDetails godoc
// @Summary Get course details
// @Description Returns the full curriculum plus the caller's enrollment status
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := cc.DB.Preload("Modules.Lessons").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	structure, err := cc.Courses.LoadCourse(c.Context(), course.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var enrolled int64
	cc.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&enrolled)

	curriculum := []fiber.Map{}
	for _, m := range structure.Modules {
		lessons := []fiber.Map{}
		for _, l := range m.Lessons {
			lessons = append(lessons, fiber.Map{
				"id":       l.ID,
				"title":    l.Title,
				"order":    l.Order,
				"type":     l.Type,
				"duration": l.Duration,
			})
		}
		curriculum = append(curriculum, fiber.Map{
			"id":          m.ID,
			"title":       m.Title,
			"description": m.Description,
			"order":       m.Order,
			"lessons":     lessons,
		})
	}

	return c.JSON(fiber.Map{
		"course": fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
			"category":    course.Category,
			"instructor":  course.Instructor,
			"thumbnail":   course.Thumbnail,
			"price":       course.Price,
			"accessType":  course.AccessType,
			"allowSkip":   course.AllowSkip,
			"modules":     len(structure.Modules),
			"lessons":     structure.LessonCount(),
			"duration":    structure.TotalDuration(),
		},
		"curriculum": curriculum,
		"enrolled":   enrolled > 0,
	})
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Creates the enrollment and the initial progress record pointing at the first lesson
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	structure, err := cc.Courses.LoadCourse(c.Context(), uint(courseID))
	if err != nil {
		if errors.Is(err, storage.ErrCourseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var existing int64
	cc.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Already enrolled",
		})
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: uint(courseID)}
	if err := cc.DB.Create(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not enroll",
		})
	}

	// Initial progress points at the first lesson; a course without content
	// enrolls fine and gets its progress record on the first viewer visit.
	moduleID, lessonID, _ := structure.First()
	progress := lesson.NewProgress(userID, uint(courseID), moduleID, lessonID, time.Now())
	if err := cc.Progress.Create(c.Context(), progress); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create progress",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Enrolled",
		"courseId": courseID,
	})
}

// GetEnrolledCourses godoc
// @Summary List the caller's enrolled courses
// @Description Returns each enrolled course with its completion percentage and resume point
// @Tags courses
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /dashboard/courses [get]
func (cc *CoursesController) GetEnrolledCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var enrollments []models.Enrollment
	if err := cc.DB.Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := []fiber.Map{}
	for _, enrollment := range enrollments {
		structure, err := cc.Courses.LoadCourse(c.Context(), enrollment.CourseID)
		if err != nil {
			continue // course deleted since enrollment
		}

		completed := 0
		currentModule, currentLesson := "", ""
		if progress, err := cc.Progress.Load(c.Context(), userID, enrollment.CourseID); err == nil && progress != nil {
			for _, ids := range progress.CompletedLessons {
				completed += len(ids)
			}
			currentModule = progress.CurrentModule
			currentLesson = progress.CurrentLesson
		}

		percent := 0
		if total := structure.LessonCount(); total > 0 {
			percent = completed * 100 / total
		}

		var course models.Course
		if err := cc.DB.First(&course, enrollment.CourseID).Error; err != nil {
			continue
		}

		result = append(result, fiber.Map{
			"id":            course.ID,
			"title":         course.Title,
			"category":      course.Category,
			"thumbnail":     course.Thumbnail,
			"progress":      percent,
			"currentModule": currentModule,
			"currentLesson": currentLesson,
		})
	}

	return c.JSON(result)
}
