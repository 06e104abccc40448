package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/miraihq/mirai-interview/config"
	"github.com/miraihq/mirai-interview/internal/api/handlers"
	"github.com/miraihq/mirai-interview/internal/api/middleware"
	"github.com/miraihq/mirai-interview/internal/api/routes"
	"github.com/miraihq/mirai-interview/internal/cache"
	applog "github.com/miraihq/mirai-interview/internal/logger"
	"github.com/miraihq/mirai-interview/internal/providers/llm"
	"github.com/miraihq/mirai-interview/internal/providers/stt"
	"github.com/miraihq/mirai-interview/internal/providers/tts"
	"github.com/miraihq/mirai-interview/internal/repositories/disk"
	"github.com/miraihq/mirai-interview/internal/repositories/memory"
	mongorepo "github.com/miraihq/mirai-interview/internal/repositories/mongo"
	pgrepo "github.com/miraihq/mirai-interview/internal/repositories/postgres"
	"github.com/miraihq/mirai-interview/internal/services"
	"github.com/miraihq/mirai-interview/internal/storage"
	"github.com/miraihq/mirai-interview/internal/workers"
)

func main() {
	_ = godotenv.Load()

	appCfg := config.LoadApp()
	l := applog.New()
	ctx := context.Background()

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	// Google Cloud providers
	sttProvider, err := stt.NewGoogleSpeech(ctx, appCfg.SpeechEncoding)
	if err != nil {
		log.Fatalf("Speech-to-Text init error: %v", err)
	}
	defer sttProvider.Close()

	llmProvider, err := llm.NewVertexGemini(ctx, appCfg.VertexProjectID, appCfg.VertexLocation, appCfg.VertexModel)
	if err != nil {
		log.Fatalf("Vertex init error: %v", err)
	}
	defer llmProvider.Close()

	ttsProvider, err := tts.NewGoogleTTS(ctx, appCfg.TTSVoice)
	if err != nil {
		log.Fatalf("Text-to-Speech init error: %v", err)
	}
	defer ttsProvider.Close()

	// Stores and repositories
	sessions := memory.NewSessionStore(appCfg.SessionExpiry, l)
	artifactStore, err := disk.NewArtifactStore(appCfg.AudioDir)
	if err != nil {
		log.Fatalf("artifact store init error: %v", err)
	}

	historyRepo := mongorepo.NewHistoryRepo(config.MongoDatabase())
	turnRepo := pgrepo.NewTurnRepo(config.PostgresDB)
	knowledgeRepo := pgrepo.NewKnowledgeRepo(config.PostgresDB)

	var transcripts storage.Uploader
	if appCfg.GCSBucket != "" {
		gcsUploader, err := storage.NewGCSUploader(ctx, appCfg.GCSBucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer gcsUploader.Close()
		transcripts = gcsUploader
	}

	// Services
	artifactSvc := services.NewArtifactService(ttsProvider, artifactStore, sessions, l)
	defer artifactSvc.Close()

	historySvc := services.NewHistoryService(historyRepo)
	knowledgeSvc := services.NewKnowledgeService(knowledgeRepo, l)
	quizSvc := services.NewQuizService(llmProvider, cache.NewRedisCache(config.RedisClient), l)

	interviewSvc := services.NewInterviewService(services.InterviewDeps{
		Sessions:    sessions,
		STT:         sttProvider,
		LLM:         llmProvider,
		Artifacts:   artifactSvc,
		Retriever:   knowledgeSvc,
		Status:      services.NewRedisStatusPublisher(config.RedisClient),
		Turns:       turnRepo,
		History:     historySvc,
		Transcripts: transcripts,
		Logger:      l,
		DeleteDelay: appCfg.AudioDeleteDelay,
		Language:    appCfg.DefaultLanguage,
	})

	// Background janitor
	janitor := &workers.Janitor{
		Sessions:  sessions,
		Artifacts: artifactStore,
		Interval:  appCfg.JanitorInterval,
		Logger:    l,
	}
	if err := janitor.Start(ctx); err != nil {
		log.Fatalf("janitor start error: %v", err)
	}

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(interviewSvc, artifactSvc),
		Quiz:      handlers.NewQuizHandler(quizSvc),
		History:   handlers.NewHistoryHandler(historySvc),
		Knowledge: handlers.NewKnowledgeHandler(knowledgeSvc),
		Config:    handlers.NewConfigHandler(ttsProvider.Name(), appCfg.SessionExpiry, appCfg.AudioDeleteDelay),
		WS:        handlers.NewWSHandler(config.RedisClient),
	})

	l.WithField("port", appCfg.Port).Info("starting server")
	if err := r.Run(":" + appCfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
