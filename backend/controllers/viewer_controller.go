package controllers

import (
	"errors"
	"strconv"
	"time"

	"clarity-academy/backend/config"
	"clarity-academy/backend/lesson"
	"clarity-academy/backend/storage"
	"clarity-academy/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ViewerController serves the lesson viewer. Each request rebuilds a session
// from the stored structure and progress; the client carries its transient
// position (the lesson it is looking at) the way the browser page did.
type ViewerController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Courses  *storage.CourseStore
	Progress *storage.ProgressStore
}

func NewViewerController(db *gorm.DB, cfg *config.Config) *ViewerController {
	return &ViewerController{
		DB:       db,
		Cfg:      cfg,
		Courses:  storage.NewCourseStore(db),
		Progress: storage.NewProgressStore(db),
	}
}

type viewerPosition struct {
	ModuleID string `json:"module_id"`
	LessonID string `json:"lesson_id"`
}

// openSession loads the structure and the progress record (creating it lazily
// on the first visit) and resolves the resume point. A nil session means the
// error response has already been written; the caller returns the second
// value as-is.
func (vc *ViewerController) openSession(c *fiber.Ctx) (*lesson.Session, error) {
	userID, err := utils.ExtractUserIDFromToken(c, vc.Cfg)
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	structure, err := vc.Courses.LoadCourse(c.Context(), uint(courseID))
	if err != nil {
		if errors.Is(err, storage.ErrCourseNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	progress, err := vc.Progress.Load(c.Context(), userID, uint(courseID))
	if err != nil {
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if progress == nil {
		// First visit: create the record pointing at the first lesson.
		moduleID, lessonID, ok := structure.First()
		if !ok {
			return nil, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "This course has no lessons yet",
			})
		}
		progress = lesson.NewProgress(userID, uint(courseID), moduleID, lessonID, time.Now())
		if err := vc.Progress.Create(c.Context(), progress); err != nil {
			return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not create progress",
			})
		}
	}

	sess, err := lesson.NewSession(c.Context(), structure, progress, vc.Progress)
	if err != nil {
		if errors.Is(err, lesson.ErrNoContent) {
			return nil, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "This course has no lessons yet",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update progress",
		})
	}
	return sess, nil
}

// render touches the access history for an accessible lesson and writes the
// view. A failed history write does not fail the render.
func (vc *ViewerController) render(c *fiber.Ctx, sess *lesson.Session, extra fiber.Map) error {
	if sess.Accessible() {
		_ = sess.Touch(c.Context())
	}

	view := sess.View()
	view.Lesson.VideoURL = utils.ConvertToEmbedURL(view.Lesson.VideoURL)

	body := fiber.Map{"view": view}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(body)
}

// GetLesson godoc
// @Summary Render the lesson viewer
// @Description Resolves the learner's resume point and returns the active lesson plus the sidebar
// @Tags viewer
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lesson [get]
func (vc *ViewerController) GetLesson(c *fiber.Ctx) error {
	sess, err := vc.openSession(c)
	if sess == nil {
		return err
	}
	return vc.render(c, sess, nil)
}

// Jump godoc
// @Summary Jump to a lesson via the sidebar
// @Description Moves to the requested lesson when it is unlocked; a locked target returns the unchanged view
// @Tags viewer
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param position body viewerPosition true "Target lesson"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/lesson/jump [post]
func (vc *ViewerController) Jump(c *fiber.Ctx) error {
	var target viewerPosition
	if err := c.BodyParser(&target); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	sess, err := vc.openSession(c)
	if sess == nil {
		return err
	}

	// Locked jumps are UI gating, not errors: stay put and re-render.
	_ = sess.Jump(target.ModuleID, target.LessonID)
	return vc.render(c, sess, nil)
}

// Next godoc
// @Summary Advance to the next lesson
// @Description Forward navigation applies no access check; the request body carries the lesson the client is on
// @Tags viewer
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param position body viewerPosition false "Current position, defaults to the resume point"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/lesson/next [post]
func (vc *ViewerController) Next(c *fiber.Ctx) error {
	var pos viewerPosition
	_ = c.BodyParser(&pos)

	sess, err := vc.openSession(c)
	if sess == nil {
		return err
	}

	if pos.ModuleID != "" && pos.LessonID != "" {
		if err := sess.SetPosition(pos.ModuleID, pos.LessonID); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lesson not found",
			})
		}
	}

	advanced := sess.Next()
	return vc.render(c, sess, fiber.Map{"advanced": advanced})
}

// Complete godoc
// @Summary Mark the active lesson complete
// @Description Records the completion, propagates module/course completion and optionally advances
// @Tags viewer
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body map[string]interface{} true "Position plus advance flag"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lesson/complete [post]
func (vc *ViewerController) Complete(c *fiber.Ctx) error {
	type CompleteInput struct {
		ModuleID string `json:"module_id"`
		LessonID string `json:"lesson_id"`
		Advance  bool   `json:"advance"`
	}

	var input CompleteInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	sess, err := vc.openSession(c)
	if sess == nil {
		return err
	}

	if input.ModuleID != "" && input.LessonID != "" {
		if err := sess.SetPosition(input.ModuleID, input.LessonID); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lesson not found",
			})
		}
	}

	res, err := sess.Complete(c.Context(), input.Advance)
	if err != nil {
		if errors.Is(err, lesson.ErrUnknownModule) || errors.Is(err, lesson.ErrUnknownLesson) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lesson not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update progress",
		})
	}

	return vc.render(c, sess, fiber.Map{
		"moduleCompleted": res.ModuleCompleted,
		"courseCompleted": res.CourseCompleted,
		"nextModule":      res.NextModule,
		"nextLesson":      res.NextLesson,
	})
}
