package controllers

import (
	"errors"
	"strconv"

	"clarity-academy/backend/config"
	"clarity-academy/backend/models"
	"clarity-academy/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

func (ac *AdminController) findCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Course not found")
		}
		return nil, utils.InternalServerError(c, "Could not query database")
	}
	return &course, nil
}

// CreateCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Param course body models.Course true "Course fields"
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses [post]
func (ac *AdminController) CreateCourse(c *fiber.Ctx) error {
	var input struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Instructor  string  `json:"instructor"`
		Thumbnail   string  `json:"thumbnail"`
		Price       float64 `json:"price"`
		Published   bool    `json:"published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	course := models.Course{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Instructor:  input.Instructor,
		Thumbnail:   input.Thumbnail,
		Price:       input.Price,
		Published:   input.Published,
		AccessType:  models.AccessSequential,
	}
	if err := ac.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.Created(c, course)
}

// UpdateCourse godoc
// @Summary Update course fields
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id} [put]
func (ac *AdminController) UpdateCourse(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}

	var input struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Instructor  string   `json:"instructor"`
		Thumbnail   string   `json:"thumbnail"`
		Price       *float64 `json:"price"`
		Published   *bool    `json:"published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Instructor != "" {
		course.Instructor = input.Instructor
	}
	if input.Thumbnail != "" {
		course.Thumbnail = input.Thumbnail
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.Published != nil {
		course.Published = *input.Published
	}

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}
	return utils.Success(c, fiber.StatusOK, course)
}

// UpdateAccessConfig godoc
// @Summary Update course access configuration
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/access [put]
func (ac *AdminController) UpdateAccessConfig(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}

	var input struct {
		AccessType string `json:"access_type"`
		AllowSkip  *bool  `json:"allow_skip"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.AccessType != "" {
		switch input.AccessType {
		case models.AccessSequential, models.AccessAnytime,
			models.AccessDaily, models.AccessWeekly, models.AccessMonthly:
			course.AccessType = input.AccessType
		default:
			return utils.BadRequest(c, "Unknown access type")
		}
	}
	if input.AllowSkip != nil {
		course.AllowSkip = *input.AllowSkip
	}

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"accessType": course.AccessType,
		"allowSkip":  course.AllowSkip,
	})
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags admin
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id} [delete]
func (ac *AdminController) DeleteCourse(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}
	if err := ac.DB.Delete(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": course.ID})
}

// AddModule godoc
// @Summary Add a module to a course
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/modules [post]
func (ac *AdminController) AddModule(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Order       int    `json:"order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	// Default order: append after the existing modules.
	if input.Order == 0 {
		var count int64
		ac.DB.Model(&models.Module{}).Where("course_id = ?", course.ID).Count(&count)
		input.Order = int(count) + 1
	}

	module := models.Module{
		CourseID:      course.ID,
		Title:         input.Title,
		Description:   input.Description,
		SequenceOrder: input.Order,
	}
	if err := ac.DB.Create(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not create module")
	}
	return utils.Created(c, module)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/modules/{moduleId} [put]
func (ac *AdminController) UpdateModule(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}

	var module models.Module
	if err := ac.DB.Where("id = ? AND course_id = ?", c.Params("moduleId"), course.ID).
		First(&module).Error; err != nil {
		return utils.NotFound(c, "Module not found")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Order       int    `json:"order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		module.Title = input.Title
	}
	if input.Description != "" {
		module.Description = input.Description
	}
	if input.Order != 0 {
		module.SequenceOrder = input.Order
	}

	if err := ac.DB.Save(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not update module")
	}
	return utils.Success(c, fiber.StatusOK, module)
}

// DeleteModule godoc
// @Summary Delete a module and its lessons
// @Tags admin
// @Produce json
// @Param id path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/modules/{moduleId} [delete]
func (ac *AdminController) DeleteModule(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}

	var module models.Module
	if err := ac.DB.Where("id = ? AND course_id = ?", c.Params("moduleId"), course.ID).
		First(&module).Error; err != nil {
		return utils.NotFound(c, "Module not found")
	}

	if err := ac.DB.Where("module_id = ?", module.ID).Delete(&models.Lesson{}).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete lessons")
	}
	if err := ac.DB.Delete(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete module")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": module.ID})
}

func (ac *AdminController) findModule(c *fiber.Ctx, courseID uint) (*models.Module, error) {
	var module models.Module
	if err := ac.DB.Where("id = ? AND course_id = ?", c.Params("moduleId"), courseID).
		First(&module).Error; err != nil {
		return nil, utils.NotFound(c, "Module not found")
	}
	return &module, nil
}

// AddLesson godoc
// @Summary Add a lesson to a module
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/modules/{moduleId}/lessons [post]
func (ac *AdminController) AddLesson(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}
	module, err := ac.findModule(c, course.ID)
	if module == nil {
		return err
	}

	var input struct {
		Title      string `json:"title"`
		Type       string `json:"type"`
		VideoURL   string `json:"video_url"`
		Content    string `json:"content"`
		Duration   int    `json:"duration"`
		AccessRule string `json:"access_rule"`
		Order      int    `json:"order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if input.Type == "" {
		input.Type = models.LessonTypeText
	}

	// Content requirements depend on the lesson type.
	switch input.Type {
	case models.LessonTypeVideo:
		if input.VideoURL == "" {
			return utils.BadRequest(c, "Video URL is required for video lessons")
		}
	case models.LessonTypeText:
		if input.Content == "" {
			return utils.BadRequest(c, "Content is required for text lessons")
		}
	case models.LessonTypeMixed:
		if input.VideoURL == "" || input.Content == "" {
			return utils.BadRequest(c, "Video URL and content are required for mixed lessons")
		}
	default:
		return utils.BadRequest(c, "Unknown lesson type")
	}

	if input.Order == 0 {
		var count int64
		ac.DB.Model(&models.Lesson{}).Where("module_id = ?", module.ID).Count(&count)
		input.Order = int(count) + 1
	}

	lesson := models.Lesson{
		ModuleID:      module.ID,
		Title:         input.Title,
		Type:          input.Type,
		VideoURL:      input.VideoURL,
		Content:       input.Content,
		Duration:      input.Duration,
		AccessRule:    input.AccessRule,
		SequenceOrder: input.Order,
	}
	if err := ac.DB.Create(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not create lesson")
	}
	return utils.Created(c, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/modules/{moduleId}/lessons/{lessonId} [put]
func (ac *AdminController) UpdateLesson(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}
	module, err := ac.findModule(c, course.ID)
	if module == nil {
		return err
	}

	var lesson models.Lesson
	if err := ac.DB.Where("id = ? AND module_id = ?", c.Params("lessonId"), module.ID).
		First(&lesson).Error; err != nil {
		return utils.NotFound(c, "Lesson not found")
	}

	var input struct {
		Title      string `json:"title"`
		Type       string `json:"type"`
		VideoURL   string `json:"video_url"`
		Content    string `json:"content"`
		Duration   int    `json:"duration"`
		AccessRule string `json:"access_rule"`
		Order      int    `json:"order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		lesson.Title = input.Title
	}
	if input.Type != "" {
		lesson.Type = input.Type
	}
	if input.VideoURL != "" {
		lesson.VideoURL = input.VideoURL
	}
	if input.Content != "" {
		lesson.Content = input.Content
	}
	if input.Duration != 0 {
		lesson.Duration = input.Duration
	}
	if input.AccessRule != "" {
		lesson.AccessRule = input.AccessRule
	}
	if input.Order != 0 {
		lesson.SequenceOrder = input.Order
	}

	if err := ac.DB.Save(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not update lesson")
	}
	return utils.Success(c, fiber.StatusOK, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Description Removes the lesson and closes the order gap it leaves behind
// @Tags admin
// @Produce json
// @Param id path int true "Course ID"
// @Param moduleId path string true "Module ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/modules/{moduleId}/lessons/{lessonId} [delete]
func (ac *AdminController) DeleteLesson(c *fiber.Ctx) error {
	course, err := ac.findCourse(c)
	if course == nil {
		return err
	}
	module, err := ac.findModule(c, course.ID)
	if module == nil {
		return err
	}

	var lesson models.Lesson
	if err := ac.DB.Where("id = ? AND module_id = ?", c.Params("lessonId"), module.ID).
		First(&lesson).Error; err != nil {
		return utils.NotFound(c, "Lesson not found")
	}

	if err := ac.DB.Delete(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete lesson")
	}

	// Reorder remaining lessons so orders stay dense from 1.
	var rest []models.Lesson
	ac.DB.Where("module_id = ?", module.ID).Order("sequence_order").Find(&rest)
	for i := range rest {
		if rest[i].SequenceOrder != i+1 {
			rest[i].SequenceOrder = i + 1
			ac.DB.Save(&rest[i])
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": lesson.ID})
}

// GetStats godoc
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/stats [get]
func (ac *AdminController) GetStats(c *fiber.Ctx) error {
	var courses, students, enrollments int64
	ac.DB.Model(&models.Course{}).Count(&courses)
	ac.DB.Model(&models.User{}).Where("role = ?", "student").Count(&students)
	ac.DB.Model(&models.Enrollment{}).Count(&enrollments)

	return c.JSON(fiber.Map{
		"courses":     courses,
		"students":    students,
		"enrollments": enrollments,
	})
}
