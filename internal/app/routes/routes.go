package routes

import (
	"net/http"

	"github.com/elevate/clubhub/internal/app/controllers"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Club         *controllers.ClubController
	ClubRequest  *controllers.ClubRequestController
	UserClub     *controllers.UserClubController
	Announcement *controllers.AnnouncementController
	Question     *controllers.QuestionController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/users/signup", c.Auth.Signup)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Super admin only
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RolesAllowed(models.RoleSuperAdmin))
	{
		admin.GET("/users", c.User.GetAllUsers)
		admin.GET("/users/:id", c.User.GetUserByID)
		admin.PUT("/users/:id/update", c.User.AdminUpdateUser)
		admin.DELETE("/users/:id", c.User.DeleteUser)

		admin.POST("/clubs", c.Club.CreateClub)
		admin.PUT("/clubs/:id", c.Club.UpdateClub)
		admin.DELETE("/clubs/:id", c.Club.DeleteClub)
	}

	// Club management; ownership of the club is checked by the services
	clubAdmin := authenticated.Group("/clubadmin")
	clubAdmin.Use(authMiddleware.RolesAllowed(models.RoleSuperAdmin, models.RoleClubAdmin))
	{
		clubAdmin.PATCH("/clubs/:id", c.Club.PatchClub)
		clubAdmin.PATCH("/clubs/:id/image", c.Club.UpdateClubImage)
		clubAdmin.PATCH("/clubs/:id/background-image", c.Club.UpdateClubBackgroundImage)

		clubAdmin.GET("/club-requests/:id", c.ClubRequest.GetClubRequests)
		clubAdmin.PATCH("/club-requests/:id/update", c.ClubRequest.UpdateRequest)

		clubAdmin.POST("/announcements", c.Announcement.CreateAnnouncement)
	}

	// Any authenticated role
	student := authenticated.Group("/student")
	{
		student.GET("/users/email", c.User.GetUserByEmail)
		student.GET("/users/search", c.User.SearchUsers)
		student.GET("/profile/:id", c.User.GetProfile)
		student.PUT("/profile/:id/update", c.User.UpdateProfile)
		student.PATCH("/profile/:id", c.User.PatchProfile)
		student.PATCH("/update/profile-photo/:id", c.User.UpdateProfilePhoto)

		student.GET("/clubs", c.Club.GetAllClubs)
		student.GET("/clubs/by-name", c.Club.GetClubByName)
		student.GET("/clubs/:id", c.Club.GetClubByID)

		student.POST("/club-requests", c.ClubRequest.CreateRequest)
		student.GET("/club-requests/user/:userId", c.ClubRequest.GetUserRequests)
		student.PATCH("/club-requests/:id/withdraw", c.ClubRequest.WithdrawRequest)

		student.GET("/user-clubs/:id", c.UserClub.GetUserClubs)
		student.GET("/user-clubs/:id/club-members", c.UserClub.GetClubMembers)

		student.GET("/announcements/:userId/club/:clubId", c.Announcement.GetAnnouncements)
		student.GET("/announcements/:userId/club/:clubId/unseen", c.Announcement.GetUnseenAnnouncements)

		student.POST("/questions", c.Question.CreateQuestion)
		student.GET("/questions/:id", c.Question.GetClubQuestions)
		student.PATCH("/questions/:id/upvote", c.Question.UpvoteQuestion)

		student.POST("/answers", c.Question.CreateAnswer)
		student.GET("/answers/:id", c.Question.GetAnswers)
	}

	user := authenticated.Group("/user")
	{
		user.PATCH("/announcements/:userId/:announcementId/mark-seen", c.Announcement.MarkSeen)
	}

	// Health check endpoint (public)
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, "pong"))
	})
}

// SetupMetrics exposes the Prometheus registry at path
func SetupMetrics(router *gin.Engine, path string, handler http.Handler) {
	router.GET(path, gin.WrapH(handler))
}
