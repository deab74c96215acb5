package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(
		middleware.AuthMiddleware(cfg),
		middleware.FranchiseScope(),
		middleware.ActivityMiddleware(repos.user),
	)
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Course browsing is open; the catalog only shows published courses.
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), middleware.FranchiseScope(), c.course.Catalog)
		public.GET("/courses/:id", c.course.Get)
		public.GET("/courses/:id/sections", c.course.ListSections)
		public.GET("/sections/:sectionId/items", c.course.ListItems)

		// The QR link printed on certificates resolves here.
		public.GET("/certificates/verify/:number", c.certificate.Verify)

		// Payment gateway webhook, authenticated by the gateway signature
		// upstream, not by a user token.
		public.POST("/payments/callback", c.order.PaymentCallback)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.Profile)
	group.PUT("/profile", c.user.UpdateProfile)
	group.GET("/dashboard", c.dashboard.StudentOverview)

	group.POST("/enrollments", c.enrollment.Enroll)
	group.GET("/enrollments", c.enrollment.MyEnrollments)
	group.GET("/courses/:id/progress", c.enrollment.Progress)
	group.POST("/items/:itemId/complete", c.enrollment.CompleteItem)

	group.GET("/orders", c.order.MyOrders)

	group.GET("/quizzes/:quizId", c.quiz.Get)
	group.POST("/quizzes/:quizId/submissions", c.quiz.Submit)
	group.GET("/quizzes/:quizId/submissions", c.quiz.MySubmissions)

	group.GET("/assignments/:assignmentId", c.assignment.Get)
	group.POST("/assignments/:assignmentId/submissions", c.assignment.Submit)
	group.GET("/assignments/:assignmentId/submissions/mine", c.assignment.MySubmission)

	group.GET("/certificates", c.certificate.MyCertificates)

	group.POST("/tickets", c.ticket.Open)
	group.GET("/tickets", c.ticket.MyTickets)
	group.GET("/tickets/:id", c.ticket.Get)
	group.POST("/tickets/:id/messages", c.ticket.Reply)
}

func (a *App) registerInstructorRoutes(group *gin.RouterGroup, c *controllers) {
	instructor := group.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.POST("/courses", c.course.Create)
		instructor.GET("/courses", c.course.List)
		instructor.PUT("/courses/:id", c.course.Update)
		instructor.DELETE("/courses/:id", c.course.Delete)
		instructor.POST("/courses/:id/publish", c.course.Publish)
		instructor.POST("/courses/:id/unpublish", c.course.Unpublish)
		instructor.GET("/courses/:id/enrollments", c.enrollment.CourseEnrollments)
		instructor.GET("/courses/:id/overview", c.dashboard.CourseOverview)

		instructor.POST("/courses/:id/sections", c.course.CreateSection)
		instructor.PUT("/sections/:sectionId", c.course.UpdateSection)
		instructor.DELETE("/sections/:sectionId", c.course.DeleteSection)
		instructor.POST("/sections/:sectionId/items", c.course.CreateItem)
		instructor.PUT("/sections/:sectionId/reorder", c.course.ReorderItems)
		instructor.PUT("/items/:itemId", c.course.UpdateItem)
		instructor.DELETE("/items/:itemId", c.course.DeleteItem)

		instructor.POST("/courses/:id/quizzes", c.quiz.Create)
		instructor.PUT("/quizzes/:quizId", c.quiz.Update)
		instructor.DELETE("/quizzes/:quizId", c.quiz.Delete)
		instructor.POST("/quizzes/:quizId/questions", c.quiz.AddQuestion)
		instructor.PUT("/quizzes/:quizId/reorder", c.quiz.ReorderQuestions)
		instructor.PUT("/questions/:questionId", c.quiz.UpdateQuestion)
		instructor.DELETE("/questions/:questionId", c.quiz.DeleteQuestion)
		instructor.GET("/quizzes/:quizId/submissions", c.quiz.ListSubmissions)
		instructor.POST("/quiz-submissions/:submissionId/grade", c.quiz.Grade)

		instructor.POST("/courses/:id/assignments", c.assignment.Create)
		instructor.PUT("/assignments/:assignmentId", c.assignment.Update)
		instructor.DELETE("/assignments/:assignmentId", c.assignment.Delete)
		instructor.GET("/assignments/:assignmentId/submissions", c.assignment.ListSubmissions)
		instructor.POST("/assignment-submissions/:submissionId/grade", c.assignment.Grade)
	}

	// Listing course content needs a login but no instructor role.
	group.GET("/courses/:id/quizzes", c.quiz.ListByCourse)
	group.GET("/courses/:id/assignments", c.assignment.ListByCourse)
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/dashboard", c.dashboard.AdminOverview)

		admin.GET("/users", c.user.List)
		admin.PUT("/users/:id/role", c.user.SetRole)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)

		admin.POST("/franchises", c.franchise.Create)
		admin.GET("/franchises", c.franchise.List)
		admin.GET("/franchises/stats", c.franchise.Stats)
		admin.GET("/franchises/:id", c.franchise.Get)
		admin.PUT("/franchises/:id", c.franchise.Update)

		admin.GET("/orders", c.order.List)

		admin.GET("/certificates", c.certificate.List)
		admin.POST("/certificates/issue-missing", c.certificate.IssueMissing)

		admin.POST("/enrollments/bulk-complete", c.enrollment.BulkComplete)

		admin.GET("/tickets", c.ticket.List)
		admin.POST("/tickets/:id/close", c.ticket.Close)
	}

	// Instructors may also work the support queue.
	staff := group.Group("/staff")
	staff.Use(middleware.RoleMiddleware(model.Instructor))
	{
		staff.GET("/tickets", c.ticket.List)
		staff.POST("/tickets/:id/close", c.ticket.Close)
	}
}
