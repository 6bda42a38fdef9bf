package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cerdas/internal/config"
	"cerdas/internal/database"
	"cerdas/internal/handlers"
	"cerdas/internal/logging"
	"cerdas/internal/metrics"
	"cerdas/internal/models"
	"cerdas/internal/repository"
	"cerdas/internal/security"
	"cerdas/internal/service"
)

func main() {
	cfg := config.Load()

	logger, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Closer()
	slog := logger.Sugar

	db, err := database.Open(cfg)
	if err != nil {
		slog.Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	slog.Infow("database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		slog.Fatalw("failed to run migrations", "error", err)
	}
	slog.Info("migrations completed")

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	parentRepo := repository.NewParentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	gameRepo := repository.NewGameRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	// Services
	emailService, err := service.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, slog)
	if err != nil {
		slog.Fatalw("failed to initialize email service", "error", err)
	}

	signer := security.NewTokenSigner(cfg.JWTSecret)
	authService := service.NewAuthService(db, profileRepo, sessionRepo, studentRepo, parentRepo, signer, cfg.SessionDuration, emailService, slog)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, studentRepo, 5*time.Minute)
	gameService := service.NewGameService(db, gameRepo, studentRepo, questionRepo, subjectRepo, achievementRepo, leaderboardService.InvalidateSubject, cfg.QuestionsPerGame, cfg.StudyMinutesPerGame, slog)
	contentService := service.NewContentService(subjectRepo, questionRepo, achievementRepo, slog)
	dashboardService := service.NewDashboardService(studentRepo, profileRepo, gameRepo, achievementRepo, leaderboardRepo)
	parentService := service.NewParentService(parentRepo, studentRepo, dashboardService, slog)
	exportService := service.NewExportService(studentRepo)

	if err := contentService.SeedDefaults(); err != nil {
		slog.Warnw("failed to seed default content", "error", err)
	}

	// Handlers
	limiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter, slog)
	authHandler := handlers.NewAuthHandler(authService, slog)
	oauthHandler := handlers.NewOAuthHandler(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBase, slog)
	gameHandler := handlers.NewGameHandler(gameService, slog)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, slog)
	studentHandler := handlers.NewStudentHandler(dashboardService, slog)
	parentHandler := handlers.NewParentHandler(parentService, slog)
	subjectHandler := handlers.NewSubjectHandler(contentService, slog)
	questionHandler := handlers.NewQuestionHandler(contentService, slog)
	adminHandler := handlers.NewAdminHandler(profileRepo, authService, contentService, emailService, exportService, slog)

	mux := http.NewServeMux()

	// Operational endpoints
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if err := db.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(start))
		w.WriteHeader(http.StatusOK)
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", middleware.RequireAuth(authHandler.Logout))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("PUT /api/auth/password", middleware.RequireAuth(authHandler.ChangePassword))
	if oauthHandler != nil {
		mux.HandleFunc("GET /auth/google/login", oauthHandler.Login)
		mux.HandleFunc("GET /auth/google/callback", oauthHandler.Callback)
	}

	// Subjects
	mux.HandleFunc("GET /api/subjects", middleware.RequireAuth(subjectHandler.List))
	mux.HandleFunc("GET /api/subjects/{id}", middleware.RequireAuth(subjectHandler.Get))

	// Game play
	mux.HandleFunc("POST /api/game/sessions", middleware.RequireRole(gameHandler.Start, models.RoleStudent))
	mux.HandleFunc("GET /api/game/sessions/{id}", middleware.RequireRole(gameHandler.Get, models.RoleStudent))
	mux.HandleFunc("POST /api/game/sessions/{id}/answers", middleware.RequireRole(gameHandler.Answer, models.RoleStudent))
	mux.HandleFunc("POST /api/game/sessions/{id}/complete", middleware.RequireRole(gameHandler.Complete, models.RoleStudent))
	mux.HandleFunc("GET /api/game/history", middleware.RequireRole(gameHandler.History, models.RoleStudent))

	// Student dashboard
	mux.HandleFunc("GET /api/student/dashboard", middleware.RequireRole(studentHandler.Dashboard, models.RoleStudent))

	// Leaderboards
	mux.HandleFunc("GET /api/leaderboard/global", middleware.RequireAuth(leaderboardHandler.Global))
	mux.HandleFunc("GET /api/leaderboard/weekly", middleware.RequireAuth(leaderboardHandler.Weekly))
	mux.HandleFunc("GET /api/leaderboard/subjects/{id}", middleware.RequireAuth(leaderboardHandler.Subject))
	mux.HandleFunc("GET /api/leaderboard/me", middleware.RequireRole(leaderboardHandler.MyRank, models.RoleStudent))

	// Parent monitoring
	mux.HandleFunc("GET /api/parent/children", middleware.RequireRole(parentHandler.Children, models.RoleParent))
	mux.HandleFunc("POST /api/parent/children", middleware.RequireRole(parentHandler.LinkChild, models.RoleParent))
	mux.HandleFunc("GET /api/parent/children/{id}", middleware.RequireRole(parentHandler.ChildDetail, models.RoleParent))

	// Administration
	mux.HandleFunc("GET /api/admin/subjects", middleware.RequireRole(subjectHandler.AdminList, models.RoleAdmin, models.RoleTeacher))
	mux.HandleFunc("POST /api/admin/subjects", middleware.RequireRole(subjectHandler.Create, models.RoleAdmin, models.RoleTeacher))
	mux.HandleFunc("PUT /api/admin/subjects/{id}", middleware.RequireRole(subjectHandler.Update, models.RoleAdmin, models.RoleTeacher))
	mux.HandleFunc("DELETE /api/admin/subjects/{id}", middleware.RequireRole(subjectHandler.Delete, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/questions", middleware.RequireRole(questionHandler.List, models.RoleAdmin, models.RoleTeacher))
	mux.HandleFunc("GET /api/admin/questions/{id}", middleware.RequireRole(questionHandler.Get, models.RoleAdmin, models.RoleTeacher))
	mux.HandleFunc("POST /api/admin/questions", middleware.RequireRole(questionHandler.Create, models.RoleAdmin, models.RoleTeacher))
	mux.HandleFunc("PUT /api/admin/questions/{id}", middleware.RequireRole(questionHandler.Update, models.RoleAdmin, models.RoleTeacher))
	mux.HandleFunc("DELETE /api/admin/questions/{id}", middleware.RequireRole(questionHandler.Delete, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/achievements", middleware.RequireRole(adminHandler.ListAchievements, models.RoleAdmin))
	mux.HandleFunc("POST /api/admin/achievements", middleware.RequireRole(adminHandler.CreateAchievement, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/profiles", middleware.RequireRole(adminHandler.ListProfiles, models.RoleAdmin))
	mux.HandleFunc("PUT /api/admin/profiles/{id}", middleware.RequireRole(adminHandler.UpdateProfile, models.RoleAdmin))
	mux.HandleFunc("POST /api/admin/invites", middleware.RequireRole(adminHandler.Invite, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/export/students", middleware.RequireRole(adminHandler.ExportStudents, models.RoleAdmin))

	handler := handlers.Logging(slog, mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background session cleanup
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				authService.CleanupExpiredSessions()
			case <-cleanupDone:
				return
			}
		}
	}()

	go func() {
		slog.Infow("server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")
	close(cleanupDone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Errorw("shutdown error", "error", err)
	}
}
