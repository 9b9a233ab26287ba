package server

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkoval/pointing-poker/internal/analytics"
	"github.com/dkoval/pointing-poker/internal/handlers"
	"github.com/dkoval/pointing-poker/internal/middleware"
	"github.com/dkoval/pointing-poker/internal/store"
	ws "github.com/dkoval/pointing-poker/internal/websocket"
)

type Server struct {
	Router  *gin.Engine
	Store   store.RoomStore
	Hub     *ws.Hub
	Tracker *analytics.Tracker
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Info().Msg(".env not found, using environment variables")
		}
	}

	setupLogging()

	var roomStore store.RoomStore
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := store.NewPostgresStore(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect failed")
		}
		roomStore = pg
	} else {
		log.Warn().Msg("DATABASE_URL not set, rooms are held in memory only")
		roomStore = store.NewMemoryStore()
	}

	tracker := newTracker()

	hub := ws.NewHub()
	go hub.Run()

	messageH := handlers.NewRoomMessageHandler(roomStore, hub, tracker, clockwork.NewRealClock())
	roomH := handlers.NewRoomHandler(roomStore, hub, tracker)
	wsH := handlers.NewWebSocketHandler(roomStore, hub, messageH)
	statusH := handlers.NewStatusHandler(roomStore, hub)

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	APIEndpoints(router, roomH, wsH, statusH)

	return &Server{
		Router:  router,
		Store:   roomStore,
		Hub:     hub,
		Tracker: tracker,
	}
}

// newTracker wires the analytics pipeline: redis sink plus a local
// sqlite mirror for crash recovery. Without REDIS_URL analytics are
// disabled; the nil tracker is a no-op.
func newTracker() *analytics.Tracker {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Warn().Msg("REDIS_URL not set, analytics disabled")
		return nil
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	bufferPath := os.Getenv("ANALYTICS_DB_PATH")
	if bufferPath == "" {
		bufferPath = "data/analytics.db"
	}
	buffer, err := analytics.OpenBuffer(bufferPath)
	if err != nil {
		log.Warn().Err(err).Msg("analytics buffer unavailable, running without crash recovery")
		buffer = nil
	}

	return analytics.NewTracker(analytics.NewRedisSink(rdb), buffer, clockwork.NewRealClock())
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && os.Getenv("LOG_LEVEL") != "" {
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.Router)

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("server run error")
	}
}
