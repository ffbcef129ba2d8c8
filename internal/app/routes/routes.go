package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/controllers"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/metrics"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/ratelimit"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/websocket"
)

// Controllers groups every HTTP handler set mounted under /api/v1
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Department   *controllers.DepartmentController
	Training     *controllers.TrainingController
	Policy       *controllers.PolicyController
	Library      *controllers.LibraryController
	Market       *controllers.MarketController
	Survey       *controllers.SurveyController
	News         *controllers.NewsController
	Academy      *controllers.AcademyController
	WorkSystem   *controllers.WorkSystemController
	Notification *controllers.NotificationController
	Search       *controllers.SearchController
	Analytics    *controllers.AnalyticsController
	Config       *controllers.ConfigController
	Upload       *controllers.UploadController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl *Controllers,
	authMiddleware *middleware.AuthMiddleware,
	wsHandler *websocket.Handler,
	loginLimiter *ratelimit.KeyedLimiter,
	m *metrics.Metrics,
) {
	v1 := router.Group("/api/v1")

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
	managers := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleManager)
	throttled := middleware.RateLimit(loginLimiter, m)

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", throttled, ctrl.Auth.Login)
		auth.POST("/refresh", ctrl.Auth.RefreshToken)
		auth.POST("/logout", ctrl.Auth.Logout)
		auth.POST("/forgot-password", throttled, ctrl.Auth.ForgotPassword)
		auth.POST("/reset-password", throttled, ctrl.Auth.ResetPassword)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", ctrl.Auth.Me)
		authenticated.POST("/auth/change-password", ctrl.Auth.ChangePassword)

		users := authenticated.Group("/users", adminOnly)
		{
			users.GET("", ctrl.User.ListUsers)
			users.POST("", ctrl.User.CreateUser)
			users.GET("/:id", ctrl.User.GetUserByID)
			users.PUT("/:id", ctrl.User.UpdateUser)
			users.PATCH("/:id/role", ctrl.User.UpdateUserRole)
			users.PATCH("/:id/activate", ctrl.User.ActivateUser)
			users.PATCH("/:id/deactivate", ctrl.User.DeactivateUser)
			users.DELETE("/:id", ctrl.User.DeleteUser)
		}

		departments := authenticated.Group("/departments")
		{
			departments.GET("", ctrl.Department.GetAllDepartments)
			departments.GET("/:id", ctrl.Department.GetDepartmentByID)
			departments.POST("", adminOnly, ctrl.Department.CreateDepartment)
			departments.PUT("/:id", adminOnly, ctrl.Department.UpdateDepartment)
			departments.DELETE("/:id", adminOnly, ctrl.Department.DeleteDepartment)
		}

		trainings := authenticated.Group("/trainings")
		{
			trainings.GET("", ctrl.Training.ListTrainings)
			trainings.GET("/:id", ctrl.Training.GetTraining)
			trainings.GET("/:id/quiz", ctrl.Training.GetQuiz)

			manage := trainings.Group("", managers)
			{
				manage.POST("", ctrl.Training.CreateTraining)
				manage.PUT("/:id", ctrl.Training.UpdateTraining)
				manage.DELETE("/:id", ctrl.Training.DeleteTraining)

				manage.POST("/:id/lessons", ctrl.Training.CreateLesson)
				manage.PUT("/:id/lesson-order", ctrl.Training.ReorderLessons)
				manage.PUT("/:id/lessons/:lessonId", ctrl.Training.UpdateLesson)
				manage.DELETE("/:id/lessons/:lessonId", ctrl.Training.DeleteLesson)

				manage.POST("/:id/lessons/:lessonId/slides", ctrl.Training.CreateSlide)
				manage.PUT("/:id/lessons/:lessonId/slide-order", ctrl.Training.ReorderSlides)
				manage.PUT("/:id/lessons/:lessonId/slides/:slideId", ctrl.Training.UpdateSlide)
				manage.DELETE("/:id/lessons/:lessonId/slides/:slideId", ctrl.Training.DeleteSlide)

				manage.GET("/:id/questions", ctrl.Training.ListQuestions)
				manage.POST("/:id/questions", ctrl.Training.CreateQuestion)
				manage.PUT("/:id/questions/:questionId", ctrl.Training.UpdateQuestion)
				manage.DELETE("/:id/questions/:questionId", ctrl.Training.DeleteQuestion)

				manage.POST("/:id/objectives", ctrl.Training.CreateObjective)
				manage.PUT("/:id/objectives/:objectiveId", ctrl.Training.UpdateObjective)
				manage.DELETE("/:id/objectives/:objectiveId", ctrl.Training.DeleteObjective)

				manage.POST("/:id/import/:kind", ctrl.Training.Import)
			}
		}

		policies := authenticated.Group("/policies")
		{
			policies.GET("", ctrl.Policy.ListPolicies)
			policies.GET("/pending", ctrl.Policy.GetPendingPolicies)
			policies.GET("/:id", ctrl.Policy.GetPolicy)
			policies.GET("/:id/acknowledgement", ctrl.Policy.GetAcknowledgement)
			policies.POST("/:id/acknowledge", ctrl.Policy.AcknowledgePolicy)
			policies.POST("", managers, ctrl.Policy.CreatePolicy)
			policies.PUT("/:id", managers, ctrl.Policy.UpdatePolicy)
			policies.DELETE("/:id", managers, ctrl.Policy.DeletePolicy)
		}

		library := authenticated.Group("/library")
		{
			library.GET("", ctrl.Library.ListResources)
			library.GET("/:id", ctrl.Library.GetResource)
			library.POST("", managers, ctrl.Library.CreateResource)
			library.PUT("/:id", managers, ctrl.Library.UpdateResource)
			library.DELETE("/:id", managers, ctrl.Library.DeleteResource)
		}

		templates := authenticated.Group("/templates")
		{
			templates.GET("", ctrl.Library.ListTemplates)
			templates.GET("/:id", ctrl.Library.GetTemplate)
			templates.POST("", managers, ctrl.Library.CreateTemplate)
			templates.PUT("/:id", managers, ctrl.Library.UpdateTemplate)
			templates.DELETE("/:id", managers, ctrl.Library.DeleteTemplate)
		}

		// Ownership of market submissions is checked by the service.
		market := authenticated.Group("/market")
		{
			market.GET("", ctrl.Market.ListSubmissions)
			market.GET("/:id", ctrl.Market.GetSubmission)
			market.POST("", ctrl.Market.Submit)
			market.PUT("/:id", ctrl.Market.UpdateSubmission)
			market.DELETE("/:id", ctrl.Market.DeleteSubmission)
			market.PATCH("/:id/review", managers, ctrl.Market.ReviewSubmission)
		}

		surveys := authenticated.Group("/surveys")
		{
			surveys.GET("", ctrl.Survey.ListSurveys)
			surveys.GET("/:id", ctrl.Survey.GetSurvey)
			surveys.GET("/:id/responded", ctrl.Survey.GetResponseStatus)
			surveys.POST("/:id/responses", ctrl.Survey.SubmitResponse)
			surveys.GET("/:id/responses", managers, ctrl.Survey.ListResponses)
			surveys.POST("", managers, ctrl.Survey.CreateSurvey)
			surveys.PUT("/:id", managers, ctrl.Survey.UpdateSurvey)
			surveys.DELETE("/:id", managers, ctrl.Survey.DeleteSurvey)
		}

		news := authenticated.Group("/news")
		{
			news.GET("", ctrl.News.ListNews)
			news.GET("/:id", ctrl.News.GetNews)
			news.POST("", managers, ctrl.News.CreateNews)
			news.PUT("/:id", managers, ctrl.News.UpdateNews)
			news.PATCH("/:id/publish", managers, ctrl.News.PublishNews)
			news.PATCH("/:id/unpublish", managers, ctrl.News.UnpublishNews)
			news.DELETE("/:id", managers, ctrl.News.DeleteNews)
		}

		academy := authenticated.Group("/academy")
		{
			academy.GET("/progress", ctrl.Academy.GetMyProgress)

			academy.GET("/tracks", ctrl.Academy.ListTracks)
			academy.GET("/tracks/:id", ctrl.Academy.GetTrack)
			academy.POST("/tracks/:id/enroll", ctrl.Academy.EnrollTrack)
			academy.POST("/tracks", managers, ctrl.Academy.CreateTrack)
			academy.PUT("/tracks/:id", managers, ctrl.Academy.UpdateTrack)
			academy.DELETE("/tracks/:id", managers, ctrl.Academy.DeleteTrack)

			academy.POST("/trainings/:id/enroll", ctrl.Academy.Enroll)
			academy.POST("/trainings/:id/lessons/:lessonId/complete", ctrl.Academy.CompleteLesson)
			academy.POST("/trainings/:id/quiz", ctrl.Academy.SubmitQuiz)
			academy.GET("/trainings/:id/attempts", ctrl.Academy.ListAttempts)
			academy.GET("/trainings/:id/learners", managers, ctrl.Academy.ListLearners)
		}

		workSystems := authenticated.Group("/work-systems")
		{
			workSystems.GET("", ctrl.WorkSystem.ListWorkSystems)
			workSystems.GET("/:id", ctrl.WorkSystem.GetWorkSystem)
			workSystems.POST("", adminOnly, ctrl.WorkSystem.CreateWorkSystem)
			workSystems.PUT("/:id", adminOnly, ctrl.WorkSystem.UpdateWorkSystem)
			workSystems.DELETE("/:id", adminOnly, ctrl.WorkSystem.DeleteWorkSystem)
			workSystems.POST("/:id/rules", adminOnly, ctrl.WorkSystem.AddAccessRule)
			workSystems.DELETE("/:id/rules/:ruleId", adminOnly, ctrl.WorkSystem.DeleteAccessRule)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", ctrl.Notification.ListNotifications)
			notifications.GET("/ws", wsHandler.HandleConnection)
			notifications.GET("/unread-count", ctrl.Notification.GetUnreadCount)
			notifications.PATCH("/read-all", ctrl.Notification.MarkAllRead)
			notifications.PATCH("/:id/read", ctrl.Notification.MarkRead)
			notifications.DELETE("/:id", ctrl.Notification.DeleteNotification)
			notifications.POST("/broadcast", managers, ctrl.Notification.Broadcast)
		}

		authenticated.GET("/search", ctrl.Search.Search)

		analytics := authenticated.Group("/analytics", managers)
		{
			analytics.GET("/overview", ctrl.Analytics.GetOverview)
			analytics.GET("/trainings/:id", ctrl.Analytics.GetTrainingStats)
			analytics.GET("/policies/:id", ctrl.Analytics.GetPolicyStats)
			analytics.GET("/surveys/:id", ctrl.Analytics.GetSurveyResults)
		}

		config := authenticated.Group("/config")
		{
			config.GET("", ctrl.Config.ListSettings)
			config.GET("/:key", ctrl.Config.GetSetting)
			config.PUT("/:key", adminOnly, ctrl.Config.SetSetting)
			config.DELETE("/:key", adminOnly, ctrl.Config.DeleteSetting)
		}

		authenticated.POST("/uploads", ctrl.Upload.Upload)
		authenticated.DELETE("/uploads", managers, ctrl.Upload.DeleteUpload)
		authenticated.GET("/files/*key", ctrl.Upload.ServeFile)
	}
}
