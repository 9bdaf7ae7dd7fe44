package main

import (
	"context"
	"log"
	"metal-tracker/config"
	_ "metal-tracker/docs"
	"metal-tracker/internal/handler"
	"metal-tracker/internal/repository"
	"metal-tracker/internal/security"
	"metal-tracker/internal/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Metal-tracker
// @version 1.0
// @description REST API трекера метал-релизов: аутентификация с персистентным remember-me входом

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.IdentityCache)*time.Second)

	userDirectory := service.NewUserDirectoryService(userRepo, cacheRepo)
	jwtService := security.NewJWTService(&cfg.JWT)

	rememberMeService, err := service.NewRememberMeService(
		&cfg.RememberMe,
		tokenRepo,
		userDirectory,
		security.NewCookieCodec(),
		security.NewSecureTokenGenerator(),
		cacheRepo,
	)
	if err != nil {
		log.Fatalf("Ошибка создания remember-me сервиса: %v", err)
	}

	authService := service.NewAuthenticationService(userDirectory, jwtService, rememberMeService, cacheRepo)
	userService := service.NewUserService(userRepo)

	if err := userService.EnsureAdminUser(ctx, &cfg.Admin); err != nil {
		log.Fatalf("Ошибка создания администратора: %v", err)
	}

	cookieName := cfg.RememberMe.CookieName
	if cookieName == "" {
		cookieName = security.DefaultCookieName
	}

	authHandler := handler.NewAuthenticationHandler(authService, cookieName)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, jwtService, rememberMeService, cfg, cookieName)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService, rememberMe security.RememberMeAutoLogin, cfg *config.AppConfig, cookieName string) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.AuthMiddleware([]byte(cfg.JWT.SecretKey), jwtService, rememberMe, cookieName))
			r.Get("/me", h.GetCurrentUser)
			r.Head("/me", h.GetCurrentUserHead)
			r.Delete("/", h.Logout)
		})
		r.Group(func(r chi.Router) {
			r.Post("/", h.Login)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
