package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/crtlab/crt-chat/backend/internal/config"
	"github.com/crtlab/crt-chat/backend/internal/handler/chat"
	middlewarePkg "github.com/crtlab/crt-chat/backend/internal/middleware"
	"github.com/crtlab/crt-chat/backend/internal/service/pipeline"
	"github.com/crtlab/crt-chat/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the turn pipeline.
func NewRouter(pipe *pipeline.Service, study config.StudyConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(study))
	r.Use(middlewarePkg.AllowFrameEmbedding)

	chatHandler := chat.New(pipe)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
