// Package httpx exposes the service's HTTP surface: health probes, the sync
// trigger, credential status, and Prometheus metrics.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"leadpulse/internal/domain"
	"leadpulse/internal/observability"
	"leadpulse/internal/storage"
	"leadpulse/internal/syncer"
	"leadpulse/internal/vault"
)

// NewRouter builds the chi router. The sync trigger runs asynchronously:
// the handler returns 202 and the batch proceeds in the background, matching
// how the scheduler invokes it.
func NewRouter(runner *syncer.Runner, credentials storage.CredentialStore, v *vault.Vault) http.Handler {
	mux := chi.NewRouter()

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	mux.Post("/sync/run", func(w http.ResponseWriter, r *http.Request) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
			defer cancel()
			if _, err := runner.RunAll(ctx); err != nil {
				log.Printf("[httpx] batch sync: %v", err)
			}
		}()
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("sync started"))
	})

	mux.Post("/credentials", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID    string     `json:"user_id"`
			Token     string     `json:"token"`
			ExpiresAt *time.Time `json:"expires_at"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.UserID == "" || req.Token == "" {
			http.Error(w, "user_id and token are required", http.StatusBadRequest)
			return
		}

		encrypted, err := v.Encrypt(req.Token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		cred := &domain.Credential{
			ID:             uuid.NewString(),
			UserID:         req.UserID,
			EncryptedToken: encrypted,
			ExpiresAt:      req.ExpiresAt,
			IsValid:        true,
		}
		if err := credentials.Put(r.Context(), cred); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": cred.ID, "user_id": cred.UserID})
	})

	mux.Get("/credentials/{userID}/status", func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		cred, err := credentials.GetByUserID(r.Context(), userID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		status := vault.CheckExpiry(cred, time.Now())
		writeJSON(w, map[string]any{
			"status":          status.Status,
			"expires_in_days": status.ExpiresInDays,
		})
	})

	mux.Method(http.MethodGet, "/metrics", observability.Handler())

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
