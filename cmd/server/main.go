package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pairplay/backend/internal/auth"
	"pairplay/backend/internal/config"
	"pairplay/backend/internal/database"
	"pairplay/backend/internal/game"
	"pairplay/backend/internal/handler"
	"pairplay/backend/internal/hub"
	"pairplay/backend/internal/logger"
	"pairplay/backend/internal/monitor"
	"pairplay/backend/internal/store"

	// Swagger imports
	_ "pairplay/backend/docs" // registers the swagger spec

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// @title           Pairplay API
// @version         1.0
// @description     Accounts, contacts, chats and one-on-one tic-tac-toe.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(config.AppConfig.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(config.AppConfig.DatabaseURL); err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitor.NewMetrics(config.AppConfig.MetricsNamespace, registry)

	events := hub.NewHub()
	players := store.NewPlayerStore(database.DB)
	games := game.NewService(players, store.NewGameRepository(database.DB), game.WithRecorder(metrics))

	gin.SetMode(config.AppConfig.GinMode)
	router := setupRouter(metrics, handler.NewGameHandler(games, players, events), handler.NewMessageHandler(events))

	srv := &http.Server{
		Addr:              config.AppConfig.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Infow("Server is running", "addr", srv.Addr, "swagger", "/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("Graceful shutdown failed", "error", err)
	}
}

func setupRouter(metrics *monitor.Metrics, games *handler.GameHandler, messages *handler.MessageHandler) *gin.Engine {
	router := gin.Default()
	router.Use(metrics.Middleware())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	{
		api.GET("/hello", auth.OptionalAuthMiddleware(), handler.Hello)

		// User routes
		userRoutes := api.Group("/users")
		{
			userRoutes.POST("/create", handler.CreateUser)
			userRoutes.POST("/authenticate", handler.AuthenticateUser)

			account := userRoutes.Group("")
			account.Use(auth.AuthMiddleware())
			{
				account.POST("/delete", handler.DeleteUser)
				account.POST("/change_email", handler.ChangeEmail)
				account.POST("/change_password", handler.ChangePassword)
			}
		}

		// Contact routes (protected)
		contactRoutes := api.Group("/contacts")
		contactRoutes.Use(auth.AuthMiddleware())
		{
			contactRoutes.POST("/add", handler.AddContact)
			contactRoutes.GET("/list", handler.ListContacts)
		}

		// Chat routes (protected)
		chatRoutes := api.Group("/chats")
		chatRoutes.Use(auth.AuthMiddleware())
		{
			chatRoutes.POST("/create-one-on-one", handler.CreateOneOnOneChat)
			chatRoutes.GET("/user-chats/:user_id", handler.GetUserChats)
			chatRoutes.GET("/user-chats-detailed/:user_id", handler.GetUserChatsDetailed)
		}

		// Message routes (protected)
		messageRoutes := api.Group("/messages")
		messageRoutes.Use(auth.AuthMiddleware())
		{
			messageRoutes.POST("/send", messages.SendMessage)
			messageRoutes.GET("/:chat_id", messages.GetMessages)
			messageRoutes.GET("/:chat_id/events", messages.StreamMessages)
		}

		// Game routes (protected)
		gameRoutes := api.Group("/game")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.GET("", games.GetGame)
			gameRoutes.POST("/create", games.CreateGame)
			gameRoutes.POST("/move", games.MakeMove)
			gameRoutes.POST("/restart", games.RestartGame)
			gameRoutes.GET("/:game_id/events", games.StreamGame)
		}
	}

	return router
}
