package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codewithsuzan/Momento/config"
	"github.com/codewithsuzan/Momento/internal/api/admin"
	"github.com/codewithsuzan/Momento/internal/api/feed"
	"github.com/codewithsuzan/Momento/internal/api/notification"
	"github.com/codewithsuzan/Momento/internal/api/upload"
	"github.com/codewithsuzan/Momento/internal/api/user"
	"github.com/codewithsuzan/Momento/internal/middleware"
	"github.com/codewithsuzan/Momento/internal/repository/mysql"
	"github.com/codewithsuzan/Momento/internal/service"
	"github.com/codewithsuzan/Momento/internal/storage"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config.Init()

	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("starting momento")

	db := mustOpenDatabase()
	defer db.Close()

	rdb := openRedis()
	if rdb != nil {
		defer rdb.Close()
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("objectkey", util.ValidateObjectKey)
	}

	store := mustInitStorage()

	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)

	userService := service.NewUserService(userRepo, notificationRepo, rdb)
	feedService := service.NewFeedService(postRepo, notificationRepo, store)
	notificationService := service.NewNotificationService(notificationRepo, store)
	statsService := service.NewStatsService(userRepo, postRepo)

	errorMonitor := middleware.NewErrorMonitor()

	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, store)
	feedHandler := feed.NewFeedHandler(feedService)
	commentHandler := feed.NewCommentHandler(feedService)
	notificationHandler := notification.NewNotificationHandler(notificationService)
	uploadHandler := upload.NewUploadHandler(store)
	adminHandler := admin.NewAdminHandler(userService, statsService, errorMonitor)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	if config.AppConfig.StorageBackend == "local" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	registerRoutes(r, userService,
		authHandler, profileHandler, feedHandler, commentHandler,
		notificationHandler, uploadHandler, adminHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.ServerPort,
		Handler: r,
	}

	go func() {
		util.Logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Error("forced shutdown", zap.Error(err))
	}
	util.Logger.Info("server stopped")
}

func mustOpenDatabase() *sql.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		util.Logger.Fatal("failed to ping database", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("database connected",
		zap.String("host", config.AppConfig.DBHost),
		zap.String("name", config.AppConfig.DBName))
	return db
}

// openRedis returns nil when redis is unreachable; the token blacklist then
// falls back to process memory.
func openRedis() *redis.Client {
	if config.AppConfig.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		util.Logger.Warn("redis unavailable, using in-memory token blacklist", zap.Error(err))
		rdb.Close()
		return nil
	}

	util.Logger.Info("redis connected", zap.String("addr", config.AppConfig.RedisAddr))
	return rdb
}

func mustInitStorage() storage.Storage {
	uploadTTL := time.Duration(config.AppConfig.UploadURLTTL) * time.Minute

	switch config.AppConfig.StorageBackend {
	case "s3":
		store, err := storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket, uploadTTL)
		if err != nil {
			util.Logger.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
		return store
	case "gcs":
		store, err := storage.NewGCSClient(config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile, uploadTTL)
		if err != nil {
			util.Logger.Fatal("failed to initialize GCS storage", zap.Error(err))
		}
		return store
	default:
		store, err := storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
		if err != nil {
			util.Logger.Fatal("failed to initialize local storage", zap.Error(err))
		}
		return store
	}
}

func registerRoutes(
	r *gin.Engine,
	userService service.UserServiceInterface,
	authHandler *user.AuthHandler,
	profileHandler *user.ProfileHandler,
	feedHandler *feed.FeedHandler,
	commentHandler *feed.CommentHandler,
	notificationHandler *notification.NotificationHandler,
	uploadHandler *upload.UploadHandler,
	adminHandler *admin.AdminHandler,
) {
	api := r.Group("/api")

	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/request-password-reset", authHandler.RequestPasswordReset)
	api.POST("/reset-password", authHandler.ResetPassword)

	auth := middleware.AuthMiddleware(userService)
	optionalAuth := middleware.OptionalAuthMiddleware(userService)

	authorized := api.Group("/")
	authorized.Use(auth)
	{
		authorized.GET("/profile", profileHandler.GetProfile)
		authorized.PUT("/profile", profileHandler.UpdateProfile)
		authorized.POST("/profile/avatar", profileHandler.UploadAvatar)
		authorized.POST("/logout", authHandler.Logout)
		authorized.POST("/refresh-token", authHandler.RefreshToken)

		authorized.POST("/uploads/url", uploadHandler.GenerateUploadURL)
		authorized.POST("/uploads", uploadHandler.DirectUpload)

		authorized.POST("/posts", feedHandler.CreatePost)
		authorized.DELETE("/posts/:id", feedHandler.DeletePost)
		authorized.POST("/posts/:id/like", feedHandler.ToggleLike)
		authorized.POST("/posts/:id/bookmark", feedHandler.ToggleBookmark)
		authorized.GET("/bookmarks", feedHandler.GetBookmarkedPosts)

		authorized.POST("/posts/:id/comments", commentHandler.AddComment)
		authorized.DELETE("/posts/:id/comments/:comment_id", commentHandler.DeleteComment)

		authorized.POST("/users/:id/follow", profileHandler.ToggleFollow)

		authorized.GET("/notifications", notificationHandler.GetNotifications)
		authorized.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
		authorized.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	// public reads, enriched when a valid token is presented
	api.GET("/posts", optionalAuth, feedHandler.GetFeed)
	api.GET("/posts/:id", optionalAuth, feedHandler.GetPost)
	api.GET("/posts/:id/comments", commentHandler.GetComments)
	api.GET("/users/:id", optionalAuth, profileHandler.GetUserProfile)
	api.GET("/users/:id/posts", optionalAuth, feedHandler.GetUserPosts)
	api.GET("/users/:id/followers", profileHandler.GetFollowers)
	api.GET("/users/:id/following", profileHandler.GetFollowing)

	adminRoutes := api.Group("/admin")
	adminRoutes.Use(auth, middleware.AdminMiddleware(userService))
	{
		adminRoutes.GET("/stats", adminHandler.GetSystemStats)
		adminRoutes.GET("/users", adminHandler.GetUsers)
		adminRoutes.PUT("/users/:id/role", adminHandler.UpdateUserRole)
	}
}
