package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/cloud-quiz/quizmaster/internal/api/http"
	"github.com/cloud-quiz/quizmaster/internal/auth"
	authmw "github.com/cloud-quiz/quizmaster/internal/auth/middleware"
	"github.com/cloud-quiz/quizmaster/internal/config"
	"github.com/cloud-quiz/quizmaster/internal/db"
	rbac "github.com/cloud-quiz/quizmaster/internal/rbac"
	"github.com/cloud-quiz/quizmaster/internal/session"
	"github.com/cloud-quiz/quizmaster/internal/sheet"
	"github.com/cloud-quiz/quizmaster/internal/store"
	storage "github.com/cloud-quiz/quizmaster/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	questions := store.NewQuestionStore(dbh)
	results := store.NewResultStore(dbh)
	settings := store.NewSettingsStore(dbh)
	roster := store.NewRosterStore(dbh)

	// --- Auth ---
	authSvc := authmw.NewAuthService(cfg.AuthSecret)

	// --- Sessions (in-memory; lost on restart, like a page reload) ---
	mgr := session.NewManager(questions, results, nil)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Logins. Students present a roster ID, the teacher an email+password.
	r.Post("/auth/student/login", auth.StudentLoginHandler(authSvc, roster))
	r.Post("/auth/teacher/login", auth.TeacherLoginHandler(authSvc, cfg.TeacherEmail, cfg.TeacherPassHash))

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	// assets routes (protected)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))
		pr.Route("/assets", func(ar chi.Router) {
			ar.Use(rbac.RequireAny("assets:upload", "bank:view"))
			api.MountAssets(ar, bs)
		})
	})

	sheetOpts := sheet.Options{FontPath: cfg.SheetFontPath, FontName: cfg.SheetFontName}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))

		// Bank: browse for setup
		pr.With(rbac.Require("bank:view")).
			Get("/questions", api.ListQuestionsHandler(questions))
		pr.With(rbac.Require("bank:view")).
			Get("/questions/grouped", api.GroupedQuestionsHandler(questions))
		pr.With(rbac.Require("bank:view")).
			Get("/units", api.ListUnitsHandler(questions))

		// Bank: teacher CRUD + import/export
		pr.With(rbac.Require("question:create")).
			Post("/questions", api.CreateQuestionHandler(questions))
		pr.With(rbac.Require("question:edit")).
			Put("/questions/{questionID}", api.UpdateQuestionHandler(questions))
		pr.With(rbac.Require("question:delete")).
			Delete("/questions/{questionID}", api.DeleteQuestionHandler(questions))
		pr.With(rbac.Require("question:import")).
			Post("/questions/import", api.ImportQuestionsHandler(questions))
		pr.With(rbac.Require("question:export")).
			Get("/questions/export", api.ExportQuestionsHandler(questions))

		// Session panes
		pr.Route("/sessions", func(sr chi.Router) {
			sr.Use(rbac.Require("session:*"))
			sr.Post("/", api.OpenSessionHandler(mgr))
			sr.Get("/{sessionID}", api.GetSessionHandler(mgr, settings))
			sr.Delete("/{sessionID}", api.CloseSessionHandler(mgr))
			sr.Post("/{sessionID}/start", api.StartSessionHandler(mgr))
			sr.Post("/{sessionID}/answers", api.AnswerHandler(mgr))
			sr.Post("/{sessionID}/submit", api.SubmitHandler(mgr, settings))
			sr.Post("/{sessionID}/retry", api.RetryHandler(mgr))
			sr.Post("/{sessionID}/reset", api.ResetHandler(mgr))
			sr.Get("/{sessionID}/history", api.SessionHistoryHandler(mgr))
			sr.Post("/{sessionID}/history/{resultID}", api.SessionHistoryDetailHandler(mgr, results, settings))
			sr.Post("/{sessionID}/back", api.SessionBackHandler(mgr))
		})

		// Results
		pr.With(rbac.RequireAny("results:view-own", "results:view-all")).
			Get("/results", api.ListResultsHandler(results))
		pr.With(rbac.RequireAny("results:view-own", "results:view-all")).
			Get("/results/{resultID}", api.GetResultHandler(results, settings))
		pr.With(rbac.Require("results:delete")).
			Delete("/results/{resultID}", api.DeleteResultHandler(results))
		pr.With(rbac.Require("results:delete")).
			Delete("/results", api.DeleteUnitResultsHandler(results))
		pr.With(rbac.Require("results:print")).
			Get("/results/{resultID}/sheet", api.PrintSheetHandler(results, sheetOpts))
		pr.With(rbac.Require("leaderboard:view")).
			Get("/leaderboard", api.LeaderboardHandler(results))

		// Settings (reveal threshold)
		pr.With(rbac.Require("settings:view")).
			Get("/settings", api.GetSettingsHandler(settings))
		pr.With(rbac.Require("settings:update")).
			Put("/settings", api.UpdateSettingsHandler(settings))

		// Roster
		pr.With(rbac.Require("roster:manage")).
			Get("/roster", api.ListRosterHandler(roster))
		pr.With(rbac.Require("roster:manage")).
			Put("/roster/{studentID}", api.UpsertRosterHandler(roster))
		pr.With(rbac.Require("roster:manage")).
			Delete("/roster/{studentID}", api.DeleteRosterHandler(roster))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
