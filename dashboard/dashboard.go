package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/justinas/alice"
	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/conf"
	"glasswing.dev/glasswing/core"
	"golang.org/x/crypto/bcrypt"
)

var sessionStore = core.NewInMemorySessionStore(24 * time.Hour)

const sessionCookieName = "glasswing_session"

func Init(mux *http.ServeMux) {
	if *conf.Config.Screenshots.Cache.Enabled {
		ThumbnailCache = core.NewDiskCache(
			filepath.Join(conf.Config.DataDir, "cache", "screenshot-thumbnails"),
			core.WithTTL(conf.Config.Screenshots.Cache.TTL),
			core.WithMaxSize(conf.Config.Screenshots.Cache.MaxSizeBytes),
		)
	}

	chain := alice.New(authHandler)

	mux.Handle("GET /dashboard", chain.ThenFunc(homeHandler))

	mux.Handle("GET /dashboard/captures", chain.ThenFunc(capturesPageHandler))
	mux.Handle("GET /dashboard/captures/image", chain.ThenFunc(serveCaptureThumbnailHandler))
	mux.Handle("GET /dashboard/captures/user-agents", chain.ThenFunc(captureUserAgentsHandler))
	mux.Handle("POST /dashboard/captures/delete", chain.ThenFunc(deleteCaptureHandler))

	mux.Handle("GET /dashboard/qr-codes", chain.ThenFunc(qrCodesPageHandler))
	mux.Handle("POST /dashboard/qr-codes/delete", chain.ThenFunc(deleteQrCodeHandler))

	mux.Handle("GET /dashboard/domains", chain.ThenFunc(domainsPageHandler))
	mux.Handle("POST /dashboard/domains/domain", chain.ThenFunc(putDomainHandler))
	mux.Handle("POST /dashboard/domains/delete", chain.ThenFunc(deleteDomainHandler))

	mux.Handle("GET /dashboard/logs", chain.ThenFunc(logsHandler))
}

// GET /dashboard
func homeHandler(w http.ResponseWriter, req *http.Request) {
	render(w, "home.html", map[string]any{"AppName": conf.AppName})
}

// Checks whether the user is authorized, and either returns an error, or executes the passed [http.Handler].
func authHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if cookie, err := req.Cookie(sessionCookieName); err == nil {
			if sessionStore.IsValid(cookie.Value) {
				next.ServeHTTP(w, req)
				return
			}
		}

		reqUsername, reqPassword, ok := req.BasicAuth()
		if !ok || reqUsername != conf.Config.Dashboard.Username {
			slog.Warn("no credentials provided", tint.Err(fmt.Errorf("no credentials (from: %s)", core.ReadUserIP(req))),
				"method", req.Method,
				"path", req.URL.Path,
				"status", http.StatusUnauthorized)
			w.Header().Add("WWW-Authenticate", fmt.Sprintf(`Basic realm="%s"`, conf.AppName))
			w.WriteHeader(http.StatusUnauthorized)
			render(w, "error.html", map[string]any{
				"AppName": conf.AppName,
				"Title":   "Unauthorized",
				"Message": "Please provide valid credentials to access this section.",
			})
			return
		}

		err := bcrypt.CompareHashAndPassword([]byte(conf.Config.Dashboard.Password), []byte(reqPassword))
		if err != nil {
			slog.Error("invalid credentials provided", tint.Err(fmt.Errorf("invalid credentials (from: %s)", core.ReadUserIP(req))),
				"method", req.Method,
				"path", req.URL.Path,
				"status", http.StatusUnauthorized)
			w.WriteHeader(http.StatusUnauthorized)
			render(w, "error.html", map[string]any{
				"AppName": conf.AppName,
				"Title":   "Unauthorized",
				"Message": "Please provide valid credentials to access this section.",
			})
			return
		}

		sessionID, err := sessionStore.Create()
		if err == nil {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int((24 * time.Hour).Seconds()),
			})
		} else {
			slog.Error("failed to create session", tint.Err(err))
		}

		next.ServeHTTP(w, req)
	})
}

func CleanupExpiredSessions() {
	sessionStore.CleanupExpired()
}
