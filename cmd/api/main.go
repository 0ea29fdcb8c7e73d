package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fabiofranco85/escala/internal/config"
	"github.com/fabiofranco85/escala/internal/repository"

	// Use an alias to prevent naming collisions with the 'server' variable
	apiserver "github.com/fabiofranco85/escala/internal/api/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Setlist API Server...")

	// 1. Setup Configuration
	cfg := config.Load()

	gen, err := config.LoadGeneration(cfg.Library.GenerationFile)
	if err != nil {
		log.Fatalf("❌ Could not load generation rules: %v", err)
	}

	// 2. Initialize Repositories (filesystem or database, per config)
	repos := repository.New(cfg, gen)
	defer repos.Close()

	// 3. Setup Metrics
	apiserver.RegisterMetrics()
	go func() {
		http.Handle("/_metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 4. Start Server
	// Call New() from the aliased package
	srv := apiserver.New(cfg, repos, gen)

	log.Printf("🚀 API Server starting on %s", cfg.Server.Port)

	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
