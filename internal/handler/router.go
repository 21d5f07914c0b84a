package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/challenge-hub/backend/internal/config"
	"github.com/challenge-hub/backend/internal/service"
)

// Services are the collaborators the HTTP layer dispatches to.
type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Challenges *service.ChallengeService
	Videos     *service.VideoService
}

func NewRouter(svcs Services, cors config.CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(), RequestLogger(), CORSMiddleware(cors.AllowedOrigins, cors.AllowCredentials))

	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/openapi.json", OpenAPIDoc)

	api := router.Group("/api")

	authHandler := NewAuthHandler(svcs.Auth)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/user", CookieAuthMiddleware(svcs.Auth), authHandler.Me)

	protected := api.Group("", AuthMiddleware(svcs.Auth))

	userHandler := NewUserHandler(svcs.Users)
	protected.GET("/users", userHandler.List)
	protected.POST("/users", userHandler.Create)
	protected.GET("/users/:id", userHandler.Get)
	protected.PUT("/users/:id", userHandler.Update)
	protected.PATCH("/users/:id", userHandler.Update)
	protected.DELETE("/users/:id", userHandler.Delete)

	challengeHandler := NewChallengeHandler(svcs.Challenges)
	protected.GET("/challenges", challengeHandler.List)
	protected.POST("/challenges", challengeHandler.Create)
	protected.GET("/challenges/:id", challengeHandler.Get)
	protected.PUT("/challenges/:id", challengeHandler.Update)
	protected.PATCH("/challenges/:id", challengeHandler.Update)
	protected.DELETE("/challenges/:id", challengeHandler.Delete)

	videoHandler := NewVideoHandler(svcs.Videos)
	protected.GET("/videos", videoHandler.List)
	protected.POST("/videos", videoHandler.Create)
	protected.GET("/videos/:id", videoHandler.Get)
	protected.PUT("/videos/:id", videoHandler.Update)
	protected.PATCH("/videos/:id", videoHandler.Update)
	protected.DELETE("/videos/:id", videoHandler.Delete)

	return router
}
