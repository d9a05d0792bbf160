package controllers

import (
	"net/http"

	"github.com/tvillarrealb/shopstack-backend/api/responses"
	"github.com/tvillarrealb/shopstack-backend/pkg/config"
	"github.com/tvillarrealb/shopstack-backend/pkg/db"
	"github.com/tvillarrealb/shopstack-backend/pkg/logger"
	pkgredis "github.com/tvillarrealb/shopstack-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopStack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the datasources the API depends on.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopStack-Env", cfg.App.Env)

		checks := map[string]string{}
		ready := true

		if dbP != nil {
			checks["database"] = "ok"
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = err.Error()
				ready = false
				if logg != nil {
					logg.Error(r.Context(), "health.database", err)
				}
			}
		}
		if redisP != nil {
			checks["redis"] = "ok"
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				ready = false
				if logg != nil {
					logg.Error(r.Context(), "health.redis", err)
				}
			}
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
