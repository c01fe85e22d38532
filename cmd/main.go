package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/adapters/llm"
	"github.com/BISWAJIT-BARAL01/FreshMart/adapters/localstore"
	"github.com/BISWAJIT-BARAL01/FreshMart/adapters/mongo"
	"github.com/BISWAJIT-BARAL01/FreshMart/adapters/stt"
	"github.com/BISWAJIT-BARAL01/FreshMart/adapters/tts"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
	"github.com/BISWAJIT-BARAL01/FreshMart/internal/api"
	"github.com/BISWAJIT-BARAL01/FreshMart/internal/websocket"
	"github.com/BISWAJIT-BARAL01/FreshMart/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Initialize Sentry for error monitoring
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:           dsn,
			EnableTracing: true,
			// 20% of requests for performance monitoring
			TracesSampleRate: 0.2,
			Environment:      environment(),
		})
		if err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			logger.Info("sentry initialized")
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Local file stores, always available; MongoDB layers on top when
	// configured.
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	localChats, err := localstore.NewChatStore(dataDir)
	if err != nil {
		logger.Fatal("failed to open local chat store", zap.Error(err))
	}
	localSales, err := localstore.NewSaleStore(dataDir)
	if err != nil {
		logger.Fatal("failed to open local sale store", zap.Error(err))
	}

	var history repositories.ChatHistoryRepository = localChats
	var sales repositories.SaleRepository = localSales
	var mongoClient *mongo.Client
	if os.Getenv("MONGODB_URI") != "" {
		mongoClient, err = mongo.NewClient(logger)
		if err != nil {
			sentry.CaptureException(err)
			logger.Warn("MongoDB unavailable, using local stores only", zap.Error(err))
		} else {
			history = usecase.NewTieredChatHistory(
				mongo.NewChatRepository(mongoClient.Database), localChats, logger)
			sales = mongo.NewSaleRepository(mongoClient.Database)
		}
	}

	// Understanding service: real Gemini when a key is configured, canned
	// answers otherwise so the server runs offline.
	var assistant repositories.Assistant
	var parser repositories.SaleIntentParser
	if os.Getenv("GEMINI_API_KEY") != "" {
		gemini, err := llm.NewGemini(logger)
		if err != nil {
			logger.Fatal("failed to initialize understanding service", zap.Error(err))
		}
		assistant, parser = gemini, gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, using mock understanding service")
		mock := llm.NewMockUnderstanding()
		assistant, parser = mock, mock
	}

	recognizer := stt.NewGoogleRecognizer(logger)

	var speech repositories.TextToSpeech
	speech, err = tts.NewElevenLabsTTS(tts.NewElevenLabsConfigFromEnv(), logger)
	if err != nil {
		logger.Warn("TTS unavailable, voice replies disabled", zap.Error(err))
		speech = noopTTS{}
	}

	// Initialize WebSocket hub with the capture pipeline dependencies
	hub := websocket.NewHub(recognizer, parser, assistant, speech, history, sales, logger)
	go hub.Run()

	reaper := websocket.NewConnectionReaper(hub, logger)
	reaper.Start()
	defer reaper.Stop()

	// Initialize API routes
	api.InitRoutes(e, hub, history, sales, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if mongoClient != nil {
		mongoClient.Close(ctx)
	}

	logger.Info("Server exited")
}

func environment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}

// noopTTS stands in when no synthesis backend is configured.
type noopTTS struct{}

func (noopTTS) Synthesize(context.Context, string, string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}
