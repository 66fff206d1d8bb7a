package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kestrelgames/territoryd/internal/config"
	"github.com/kestrelgames/territoryd/internal/logger"
	"github.com/kestrelgames/territoryd/internal/store/postgres"
	redisstore "github.com/kestrelgames/territoryd/internal/store/redis"
	"github.com/kestrelgames/territoryd/internal/tickhost"
	"github.com/kestrelgames/territoryd/internal/transport"
	"github.com/kestrelgames/territoryd/pkg/engine"
)

// hubCachePublisher fans a tick's outbound payload out to every local
// WebSocket subscriber and publishes it on Redis for any other process
// instance also serving this room's connections.
type hubCachePublisher struct {
	hub   *transport.Hub
	cache *redisstore.Client
}

func (p *hubCachePublisher) Publish(roomID string, views []engine.NationView) {
	p.hub.BroadcastTick(roomID, views)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.cache.PublishTick(ctx, roomID, views); err != nil {
		log.Error().Err(err).Str("roomId", roomID).Msg("failed to publish tick to redis")
	}
}

func (p *hubCachePublisher) RoomEnded(roomID, winnerOwnerID string) {
	p.hub.BroadcastRoomEnded(roomID, winnerOwnerID)
}

// loadRoomConfig reads the per-room simulation tuning bundle from disk, if
// present, falling back to engine.DefaultConfig (spec.md §6, §7: a room
// refuses to start on a config that fails Validate).
func loadRoomConfig(path string) (*engine.Config, error) {
	cfg := engine.DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("no room config file found, using defaults")
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// demoMap builds a flat grassland map for the bundled reference host. Real
// deployments generate biomes, rivers, and resource-node placement upstream
// of the engine (spec.md §1 "Out of scope: map generation").
func demoMap(width, height int) *engine.Map {
	cells := make([]engine.Cell, width*height)
	for i := range cells {
		cells[i] = engine.Cell{Biome: engine.Grassland}
	}
	return engine.NewMap(width, height, cells)
}

func main() {
	logger.Init()
	cfg := config.Load()

	roomCfg, err := loadRoomConfig(cfg.RoomConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid room config, refusing to start")
	}

	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	redisClient, err := redisstore.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	roomStore := postgres.NewRoomStore(db)

	hub := transport.NewHub()
	wsHandler := transport.NewHandler(hub)
	publisher := &hubCachePublisher{hub: hub, cache: redisClient}

	roomID := logger.NewRoomID()
	m := demoMap(64, 64)
	room := engine.NewRoom(roomID, m, roomCfg, time.Now().UnixNano(), logger.Get())

	host := tickhost.New(room, roomStore, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go host.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc(fmt.Sprintf("GET /rooms/%s/ws", roomID), func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.URL.Query().Get("owner")
		wsHandler.ServeWS(w, r, ownerID)
	})
	log.Info().Str("roomId", roomID).Msg("reference room route registered")

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	host.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}
