package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/config"
	"github.com/jsjcard/eventhub/internal/directory"
	"github.com/jsjcard/eventhub/internal/handlers"
	"github.com/jsjcard/eventhub/internal/mailer"
	"github.com/jsjcard/eventhub/internal/middleware"
	"github.com/jsjcard/eventhub/internal/models"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	collab, err := config.LoadCollaboratorConfig()
	if err != nil {
		return fmt.Errorf("failed to load collaborator config: %v", err)
	}

	dir := directory.NewClient(collab.AuthServerURL, log.Logger)
	mail := mailer.New(collab.EmailAPIURL, collab.EmailSender, log.Logger)

	r := gin.Default()

	setupRoutes(r, db, dir, mail)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, dir *directory.Client, mail *mailer.Mailer) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.DirectoryMiddleware(dir))
	r.Use(middleware.MailerMiddleware(mail))

	admin := r.Group("/admin/event")
	admin.Use(middleware.JWTAuthMiddleware())
	{
		category := admin.Group("/category")
		{
			category.GET("", handlers.ListCategories)
			category.POST("", handlers.CreateCategory)
			category.GET("/profile-fields", handlers.ListFieldsByCategory)
			category.POST("/profile-fields", handlers.BulkUpsertFields)
			category.GET("/:category_id", handlers.GetCategory)
			category.PUT("/:category_id", handlers.UpdateCategory)
			category.DELETE("/:category_id", handlers.DeleteCategory)
		}

		fields := admin.Group("/fields")
		{
			fields.GET("", handlers.ListFieldsGrouped)
			fields.POST("/create", handlers.CreateField)
			fields.GET("/:id", handlers.GetField)
			fields.PUT("/:id", handlers.UpdateField)
			fields.DELETE("/:id", handlers.DeleteField)
		}
	}

	business := r.Group("/event")
	business.Use(middleware.JWTAuthMiddleware(), middleware.RequireBusiness())
	{
		business.GET("/create/events", handlers.ListBusinessEvents)
		business.POST("/create/events", handlers.CreateEvent)
		business.GET("/update/events/:event_id", handlers.GetEvent)
		business.PUT("/update/events/:event_id", handlers.UpdateEvent)
		business.DELETE("/update/events/:event_id", handlers.DeleteEvent)
		business.PATCH("/events/:event_id/status", handlers.UpdateEventStatus)
		business.GET("/event-registration/field", handlers.RegistrationFormSkeleton)

		business.GET("/registrations", handlers.ListAllRegistrations)
		business.GET("/registrations/:event_id", handlers.ListRegistrations)
		business.GET("/registrations/:event_id/attended", handlers.ListAttendedRegistrations)
		business.GET("/registrations/:event_id/pending", handlers.ListPendingRegistrations)
		business.GET("/registrations/:event_id/member/:cardno", handlers.GetRegistrationByCard)

		business.POST("/:event_id/attendance", handlers.MarkAttendance)
		business.POST("/temp-users", handlers.CreateTempUser)
		business.GET("/dashboard", handlers.GetDashboard)
	}

	member := r.Group("/member/event")
	member.Use(middleware.JWTAuthMiddleware(), middleware.RequireMember())
	{
		member.GET("/list", handlers.ListMemberEvents)
		member.GET("/details/:event_id", handlers.GetMemberEvent)
		member.GET("/my-registrations/:event_id", handlers.GetMyRegistration)
		member.POST("/:event_id/register", handlers.RegisterForEvent)
		member.GET("/:event_id/registration", handlers.GetEventRegistrationForm)
		member.POST("/self-attendance", handlers.MarkSelfAttendance)
		member.GET("/entry/:event_id", handlers.EventEntryPass)
	}

	staff := r.Group("/staff")
	{
		staff.GET("/login/:token", handlers.GetTempUserLogin)
		staff.POST("/login/:token", handlers.TempUserLogin)

		volunteer := staff.Group("/event")
		volunteer.Use(middleware.TempUserAuthMiddleware(models.TempUserTypeVolunteer))
		{
			volunteer.POST("/:event_id/attendance", handlers.MarkVolunteerAttendance)
		}

		booth := staff.Group("/booth")
		booth.Use(middleware.TempUserAuthMiddleware(models.TempUserTypeBooth))
		{
			booth.POST("/participant", handlers.LookupBoothParticipant)
			booth.POST("/decision", handlers.RecordBoothDecision)
			booth.GET("/decisions", handlers.ListBoothDecisions)
		}
	}
}
