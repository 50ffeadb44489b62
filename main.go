package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"AquaTrace/internal/auth"
	"AquaTrace/internal/crackwidth"
	"AquaTrace/internal/hydraulics"
	"AquaTrace/internal/importer"
	"AquaTrace/internal/optimizer"
	"AquaTrace/internal/plates"
	"AquaTrace/internal/profile"
	"AquaTrace/internal/report"
	"AquaTrace/internal/repo"
	"AquaTrace/internal/safety"
	"AquaTrace/internal/structural"
	"AquaTrace/internal/tankdesign"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sql.DB) {
	engineerRepo := repo.NewPostgresDB(db)
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
	tokenKey := os.Getenv("TOKEN_KEY")
	if tokenKey == "" {
		log.Fatal("TOKEN_KEY environment variable is not set")
	}

	authEnv := &auth.Authenv{JWTkey: []byte(tokenKey), Repo: engineerRepo}
	profileH := &profile.ProfileHandler{Repo: engineerRepo}

	limiter := auth.NewIPRateLimiter(1, 3)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/profile", profileH.UpdateProfile).Methods("PATCH", "PUT")
	secureApi.HandleFunc("/profile/{id:[0-9]+}", profileH.GetProfile).Methods("GET")

	safetySvc := safety.NewService()

	hydraulicsH := &hydraulics.Handler{}
	platesH := &plates.Handler{}
	crackH := &crackwidth.Handler{}
	structuralH := &structural.Handler{}
	optimizerH := &optimizer.Handler{}
	tankH := tankdesign.NewHandler(safetySvc)
	safetyH := &safety.Handler{Service: safetySvc, Audit: engineerRepo}
	reportH := &report.Handler{}
	importH := &importer.Handler{}

	secureApi.HandleFunc("/tools/pipeflow/calc", hydraulicsH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/plates/calc", platesH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/crackwidth/check", crackH.Check).Methods("POST")
	secureApi.HandleFunc("/tools/crackwidth/design", crackH.Design).Methods("POST")
	secureApi.HandleFunc("/tools/wall/calc", structuralH.CalcWall).Methods("POST")
	secureApi.HandleFunc("/tools/stability/calc", structuralH.CalcStability).Methods("POST")
	secureApi.HandleFunc("/tools/tank/optimize", optimizerH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/tank/design", tankH.Calc).Methods("POST")

	secureApi.HandleFunc("/safety/check", safetyH.Check).Methods("POST")
	secureApi.HandleFunc("/safety/history", safetyH.History).Methods("GET")
	secureApi.HandleFunc("/safety/audit", safetyH.AuditLog).Methods("GET")
	secureApi.HandleFunc("/safety/ticket", safetyH.Ticket).Methods("POST")
	secureApi.Handle("/safety/override",
		authEnv.RequireRole("senior_engineer", http.HandlerFunc(safetyH.Override))).Methods("POST")

	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/tools/import/pipeflow", importH.PipeFlow).Methods("POST")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db := auth.InitDB()
	defer db.Close()
	mux := mux.NewRouter()
	log.Println("Starting server on :443")
	HandleList(mux, db)
	handler := CORS(mux)

	server := &http.Server{
		Addr:    ":443",
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS("server.crt", "server.key"); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")

	wg.Wait()
}
