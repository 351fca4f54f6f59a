package middleware

import (
	"log"
	"net/http"
	"regexp"

	"github.com/crtlab/crt-chat/backend/internal/config"
)

// fixedOrigins are always allowed: the survey platform plus local
// development hosts.
var fixedOrigins = []string{
	"https://qualtrics.com",
	"http://localhost:8080",
	"http://127.0.0.1:8080",
}

// CORS returns middleware allowing the survey host page to call the API
// cross-origin. Subdomains of the survey platform match via the configured
// pattern; one extra origin can be added through configuration.
func CORS(study config.StudyConfig) func(http.Handler) http.Handler {
	var pattern *regexp.Regexp
	if study.OriginPattern != "" {
		var err error
		pattern, err = regexp.Compile(study.OriginPattern)
		if err != nil {
			log.Printf("[cors] invalid origin pattern %q: %v", study.OriginPattern, err)
			pattern = nil
		}
	}

	allowed := func(origin string) bool {
		if origin == "" {
			return false
		}
		for _, o := range fixedOrigins {
			if origin == o {
				return true
			}
		}
		if study.ExtraOrigin != "" && origin == study.ExtraOrigin {
			return true
		}
		return pattern != nil && pattern.MatchString(origin)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
