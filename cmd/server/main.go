package main

import (
	"database/sql"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/config"
	"github.com/raoulalobo/kmapin-logistics-sub006/internal/db"
	"github.com/raoulalobo/kmapin-logistics-sub006/internal/logger"
	"github.com/raoulalobo/kmapin-logistics-sub006/internal/migrations"
	"github.com/raoulalobo/kmapin-logistics-sub006/internal/pricing"
	"github.com/raoulalobo/kmapin-logistics-sub006/internal/seed"
	"github.com/raoulalobo/kmapin-logistics-sub006/internal/tariff"
)

type server struct {
	auth    *authService
	db      *sql.DB
	engine  *pricing.Engine
	tariffs *tariff.Store
	log     zerolog.Logger
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type loginViewData struct {
	baseViewData
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	for _, name := range cfg.MissingSecrets() {
		log.Warn().Str("var", name).Msg("environment variable is not set")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run startup seed")
	}
	if stats.Inserts > 0 {
		log.Info().Int("inserts", stats.Inserts).Msg("startup seed applied")
	}

	tariffStore := tariff.NewStore(database, log)

	srv := &server{
		auth:    newAuthService(database, cfg.SessionSecret),
		db:      database,
		engine:  pricing.NewEngine(tariffStore, log),
		tariffs: tariffStore,
		log:     log,
	}

	apiLimiter := newIPRateLimiter(rate.Limit(2), 5)

	r := chi.NewRouter()
	r.Use(requestLogger(log))
	r.Use(srv.authMiddleware)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.Get("/", srv.handleHome)
	r.Post("/quote", srv.handleQuoteSubmit)
	r.With(apiLimiter.middleware).Post("/api/quote", srv.handleAPIQuote)
	r.Get("/login", srv.handleLoginForm)
	r.Post("/login", srv.handleLoginSubmit)
	r.Post("/logout", srv.handleLogout)
	r.Get("/quotes", srv.handleQuotesList)
	r.Get("/quotes/{id}", srv.handleQuoteDetail)
	r.Get("/quotes/{id}/text", srv.handleQuoteText)
	r.Get("/admin/tariffs", srv.handleAdminTariffsForm)
	r.Post("/admin/tariffs", srv.handleAdminTariffsCreate)
	r.Post("/admin/tariffs/{id}", srv.handleAdminTariffsUpdate)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/quotes", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(email, password)
	if err != nil {
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Identifiants invalides. Réessayez."}})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/quotes", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.ParseFiles(
		"web/templates/layout.html",
		"web/templates/"+page,
	)
	if err != nil {
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}
