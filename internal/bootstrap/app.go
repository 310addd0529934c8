package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"mineaction-backend/internal/documents"
	"mineaction-backend/internal/llm"
	"mineaction-backend/internal/llm/anthropic"
	"mineaction-backend/internal/parse"
	"mineaction-backend/internal/riskanalysis"
	"mineaction-backend/internal/shared/config"
	"mineaction-backend/internal/shared/server"
	"mineaction-backend/internal/shared/storage/db"
	"mineaction-backend/internal/shared/storage/object"
	localstore "mineaction-backend/internal/shared/storage/object/local"
	s3store "mineaction-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	DocumentsRepo       documents.Repo
	DocumentsService    *documents.Service
	DocumentsHandler    *documents.Handler
	RiskService         *riskanalysis.Service
	RiskAnalysisHandler *riskanalysis.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    llmClient,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		DocumentHandler:     app.DocumentsHandler,
		RiskAnalysisHandler: app.RiskAnalysisHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.AnthropicAPIKey) == "" {
		log.Printf("bootstrap: ANTHROPIC_API_KEY empty; extraction will fail documents")
		return llm.PlaceholderClient{}, nil
	}
	return anthropic.NewClient(cfg.AnthropicAPIKey, cfg.LLMModel)
}

func buildServices(app *App) {
	var repo documents.Repo
	if app.DB != nil {
		repo = &documents.PGRepo{DB: app.DB}
	} else {
		repo = documents.NewMemoryRepo()
	}

	docSvc := documents.NewService(
		app.Store,
		repo,
		parse.NewDispatcher(),
		&documents.Extractor{LLM: app.LLM},
		app.Config.MaxUploadBytes,
	)
	riskSvc := &riskanalysis.Service{Repo: repo, LLM: app.LLM}

	app.DocumentsRepo = repo
	app.DocumentsService = docSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.RiskService = riskSvc
	app.RiskAnalysisHandler = riskanalysis.NewHandler(riskSvc)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
