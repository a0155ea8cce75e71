package routes

import (
	"clarity-academy/backend/config"
	"clarity-academy/backend/controllers"
	"clarity-academy/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	app.Get("/api/courses", coursesController.GetCourses)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/:id/enroll", coursesController.Enroll)
	app.Get("/api/dashboard/courses", authMiddleware, coursesController.GetEnrolledCourses)

	// Lesson viewer routes
	viewerController := controllers.NewViewerController(db, cfg)
	courses.Get("/:id/lesson", viewerController.GetLesson)
	courses.Post("/:id/lesson/jump", viewerController.Jump)
	courses.Post("/:id/lesson/next", viewerController.Next)
	courses.Post("/:id/lesson/complete", viewerController.Complete)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Get("/stats", adminController.GetStats)
	admin.Post("/courses", adminController.CreateCourse)
	admin.Put("/courses/:id", adminController.UpdateCourse)
	admin.Put("/courses/:id/access", adminController.UpdateAccessConfig)
	admin.Delete("/courses/:id", adminController.DeleteCourse)
	admin.Post("/courses/:id/modules", adminController.AddModule)
	admin.Put("/courses/:id/modules/:moduleId", adminController.UpdateModule)
	admin.Delete("/courses/:id/modules/:moduleId", adminController.DeleteModule)
	admin.Post("/courses/:id/modules/:moduleId/lessons", adminController.AddLesson)
	admin.Put("/courses/:id/modules/:moduleId/lessons/:lessonId", adminController.UpdateLesson)
	admin.Delete("/courses/:id/modules/:moduleId/lessons/:lessonId", adminController.DeleteLesson)
}
