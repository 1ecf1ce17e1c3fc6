package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/certlab/protodrill/internal/api/http"
	auth "github.com/certlab/protodrill/internal/auth/middleware"
	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/config"
	"github.com/certlab/protodrill/internal/db"
	"github.com/certlab/protodrill/internal/errs"
	"github.com/certlab/protodrill/internal/groups"
	"github.com/certlab/protodrill/internal/guides"
	"github.com/certlab/protodrill/internal/parser"
	"github.com/certlab/protodrill/internal/practice"
	"github.com/certlab/protodrill/internal/quiz"
	"github.com/certlab/protodrill/internal/rbac"
	"github.com/certlab/protodrill/internal/topics"
	"github.com/certlab/protodrill/internal/tutor"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Content ---
	topicsMgr, err := topics.Load(cfg.TopicsDir)
	if err != nil {
		log.Fatalf("load topics: %v", err)
	}
	guidesLib, err := guides.Load(cfg.GuidesDir)
	if err != nil {
		log.Fatalf("load guides: %v", err)
	}

	loader := &parser.Loader{
		Dir:    cfg.BankDir,
		Prefix: cfg.BankFilePrefix,
		Tagger: parser.NewTagger(topicsMgr.TaggerNames()),
	}
	idx, err := loader.Ingest()
	if err != nil {
		var ie *errs.IntegrityError
		if errors.As(err, &ie) {
			log.Fatalf("ingestion aborted: %v", err)
		}
		log.Fatalf("ingestion failed: %v", err)
	}
	library := bank.NewLibrary(idx)
	log.Printf("ingested %d questions, %d topics, %d guides", idx.Len(), topicsMgr.Len(), guidesLib.Len())

	// --- Tutor (optional) ---
	var tut *tutor.Tutor
	var classifier groups.Classifier
	if cfg.AnthropicAPIKey != "" {
		provider, err := tutor.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.TutorModel)
		if err != nil {
			log.Fatalf("tutor provider: %v", err)
		}
		tut = tutor.New(provider, guidesLib)
		classifier = tut
	} else {
		log.Printf("ANTHROPIC_API_KEY unset: tutoring disabled, concept groups fall back to individual")
	}

	// --- Engines ---
	groupsSvc := groups.NewService(groups.NewSQLStore(dbh), classifier)
	quizEngine := quiz.NewEngine(library, groupsSvc, rand.New(rand.NewSource(time.Now().UnixNano())))
	practiceEngine := practice.NewEngine(library, rand.New(rand.NewSource(time.Now().UnixNano())))

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	principals := []auth.Principal{
		{Username: cfg.StudentUser, PassHash: cfg.StudentPassHash, Role: "student"},
		{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"},
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, principals))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("topics:view")).
			Get("/topics", api.HandleListTopics(topicsMgr, library))
		pr.With(rbac.Require("topics:view")).
			Get("/topics/{slug}", api.HandleGetTopic(topicsMgr))
		pr.With(rbac.Require("topics:view")).
			Get("/topics/{slug}/related", api.HandleRelatedTopics(topicsMgr))
		pr.With(rbac.Require("bank:view")).
			Get("/topics/{slug}/questions", api.HandleTopicQuestions(library))
		pr.With(rbac.Require("guides:view")).
			Get("/guides/search", api.HandleSearchGuides(guidesLib))

		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/start", api.HandleStartQuiz(quizEngine))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/answer", api.HandleSubmitQuizAnswer(quizEngine))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/next-in-group", api.HandleNextGroupQuestion(quizEngine))

		pr.With(rbac.Require("practice:take")).
			Post("/practice/start", api.HandleStartPractice(practiceEngine, topicsMgr))
		pr.With(rbac.Require("practice:take")).
			Post("/practice/check", api.HandleCheckAnswer(practiceEngine, library, tut))
		pr.With(rbac.Require("tutor:ask")).
			Post("/practice/hint", api.HandleHint(practiceEngine, library, tut))
		pr.With(rbac.Require("practice:take")).
			Post("/practice/reveal", api.HandleReveal(practiceEngine, tut))
		pr.With(rbac.Require("practice:take")).
			Post("/practice/skip", api.HandleSkip(practiceEngine))
		pr.With(rbac.Require("practice:take")).
			Post("/practice/next", api.HandleNext(practiceEngine))
		pr.With(rbac.Require("practice:take")).
			Get("/practice/summary", api.HandleSummary(practiceEngine))

		// Admin surface
		pr.With(rbac.Require("admin:reindex")).
			Post("/admin/reindex", api.HandleReindex(loader, library))
		pr.With(rbac.Require("admin:groups")).
			Get("/admin/topics/{slug}/groups", api.HandleGetGroups(groupsSvc, library))
		pr.With(rbac.Require("admin:groups")).
			Post("/admin/topics/{slug}/regroup", api.HandleRegroup(groupsSvc, library))
		pr.With(rbac.Require("admin:groups")).
			Post("/admin/groups/override", api.HandleGroupOverride(groupsSvc, library))
		pr.With(rbac.Require("admin:bank")).
			Get("/admin/questions/{id}", api.HandleGetQuestion(library))
		pr.With(rbac.Require("admin:bank")).
			Get("/admin/questions/multi-topic", api.HandleMultiTopic(library))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
