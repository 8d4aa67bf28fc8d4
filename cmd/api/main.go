package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"jurisync/db"
	"jurisync/internal/acervo"
	"jurisync/internal/captura"
	"jurisync/internal/handler"
	"jurisync/internal/model"
	"jurisync/internal/repository"
	"jurisync/pkg/pje"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	acervoRepo := repository.NewAcervoRepository(db.DB)
	capturaRepo := repository.NewCapturaRepository(db.DB)
	credencialRepo := repository.NewCredencialRepository(db.DB)

	stores := captura.Stores{
		Acervo:     acervoRepo,
		Audiencias: repository.NewAudienciaRepository(db.DB),
		Orgaos:     repository.NewOrgaoJulgadorRepository(db.DB),
		Partes:     repository.NewParteRepository(db.DB),
		Timeline:   repository.NewTimelineRepository(db.DB),
	}

	// Os limites de cota são compartilhados entre todos os jobs do processo.
	limits := pje.NewRateLimits()
	retryWait := parseDuration("PJE_RETRY_WAIT")
	orchestrator := captura.NewOrchestrator(capturaRepo, stores, capturaRepo,
		func(cred model.Credencial) (captura.TribunalClient, error) {
			return pje.NewClient(pje.Config{
				Tribunal:   cred.Tribunal,
				Grau:       cred.Grau,
				IDAdvogado: cred.IDPjeAdvogado,
				RetryWait:  retryWait,
			}, limits)
		})

	acervoService := acervo.NewService(acervoRepo, acervo.NewCache(db.Redis, parseDuration("ACERVO_CACHE_TTL")))

	capturaHandler := handler.NewCapturaHandler(capturaRepo, credencialRepo, orchestrator)
	acervoHandler := handler.NewAcervoHandler(acervoService)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/api/captura/trt/:entidade", capturaHandler.IniciarCaptura)
	r.GET("/api/captura/credenciais", capturaHandler.GetCredenciais)
	r.GET("/api/captura/historico", capturaHandler.GetHistorico)
	r.GET("/api/captura/historico/:id", capturaHandler.GetHistoricoPorID)
	r.DELETE("/api/captura/historico/:id", capturaHandler.DeleteHistorico)
	r.GET("/api/acervo/unificado", acervoHandler.GetUnificado)
	r.GET("/health", capturaHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// parseDuration lê uma duração de ambiente; zero delega ao default do
// componente que a consome.
func parseDuration(name string) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "var", name, "value", v, "error", err)
		return 0
	}
	return parsed
}
