package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/viannadoces/doceria-web/pkg/config"
	"github.com/viannadoces/doceria-web/pkg/logger"
	redisclient "github.com/viannadoces/doceria-web/pkg/redis"
)

// HealthLive answers as soon as the process serves traffic.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, map[string]string{"status": "live", "env": cfg.App.Env})
	}
}

// HealthReady verifies the session store before reporting ready. The backend
// API is deliberately not probed; its failures surface per request.
func HealthReady(cfg *config.Config, logg *logger.Logger, redis redisclient.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if redis != nil {
			if err := redis.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(ctx, "readiness redis ping failed", err)
				}
				writeHealth(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": "down"})
				return
			}
		}
		writeHealth(w, http.StatusOK, map[string]string{"status": "ready", "env": cfg.App.Env})
	}
}

func writeHealth(w http.ResponseWriter, status int, payload map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
