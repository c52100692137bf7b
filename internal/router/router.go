package router

import (
	"hacktivity/internal/auth"
	"hacktivity/internal/config"
	"hacktivity/internal/handler"
	"hacktivity/internal/middleware"
	"hacktivity/internal/slug"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the Gin engine and wires all routes.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	verifier := auth.NewVerifier(db, cfg.Security.BcryptCost)
	sessions := auth.NewSessionManager(db, cfg.Session)
	slugs := slug.NewAllocator(db)

	authHandler := handler.NewAuthHandler(db, verifier, sessions)
	userHandler := handler.NewUserHandler(db, verifier, sessions)
	profileHandler := handler.NewProfileHandler(db)
	postHandler := handler.NewPostHandler(db, slugs)
	likeHandler := handler.NewLikeHandler(db)
	exportHandler := handler.NewExportHandler(db)
	activityHandler := handler.NewActivityHandler(db)

	// public surface
	r.POST("/account/register", authHandler.Register)
	r.POST("/auth/local/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/failed/auth", authHandler.FailedAuth)
	r.GET("/api/post/all", postHandler.ListAll)
	r.GET("/api/post/single/:slug", postHandler.GetSingle)

	// everything below requires a resolvable session
	protected := r.Group("")
	protected.Use(
		middleware.Auth(sessions),
		middleware.Audit(db),
	)

	protected.GET("/auth/user/me", userHandler.Me)
	protected.PUT("/auth/user/me", userHandler.UpdateMe)
	protected.PATCH("/auth/user/me", userHandler.UpdateMe)
	protected.DELETE("/auth/user/me", userHandler.DeleteMe)

	protected.GET("/account/profile", profileHandler.Get)
	protected.POST("/account/profile", profileHandler.Create)
	protected.PUT("/account/profile", profileHandler.Update)
	protected.PATCH("/account/profile", profileHandler.Update)
	protected.DELETE("/account/profile", profileHandler.Delete)

	protected.POST("/auth/user/post/me", postHandler.Create)
	protected.PUT("/auth/user/post/me/:slug", postHandler.Update)
	protected.PATCH("/auth/user/post/me/:slug", postHandler.Update)
	protected.DELETE("/auth/user/post/me/:slug", postHandler.Delete)

	protected.POST("/auth/user/post/like/:slug", likeHandler.Like)
	protected.DELETE("/auth/user/post/like/:slug", likeHandler.Unlike)

	protected.GET("/auth/user/export/xlsx", exportHandler.ExportXLSX)
	protected.GET("/auth/user/export/csv", exportHandler.ExportCSV)
	protected.GET("/auth/user/activity", activityHandler.List)

	return r
}
