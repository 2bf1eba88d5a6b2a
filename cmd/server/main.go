/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the quota compliance server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Seed built-in year policies (only for years with no definition)
  4. Optionally load a year policy definition file
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: quota.db)
           Use ":memory:" for an in-memory database
  -policy  Optional YearPolicy definition file (.json/.yaml) to load
           on startup; replaces any stored definition for its year

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/quota.db"

  # Load this year's published constants
  ./server -policy="./policies/2026.yaml"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/quota-engine/api"
	"github.com/warp/quota-engine/factory"
	"github.com/warp/quota-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "quota.db", "SQLite database path")
	policyPath := flag.String("policy", "", "YearPolicy definition file to load on startup")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Seed built-in policies for years that have none yet
	existing, err := store.ListPolicyYears(ctx)
	if err != nil {
		log.Fatalf("Failed to list stored policies: %v", err)
	}
	have := make(map[int]bool, len(existing))
	for _, year := range existing {
		have[year] = true
	}
	for _, def := range factory.Presets() {
		if have[def.Year] {
			continue
		}
		if err := store.SavePolicyDefinition(ctx, def); err != nil {
			log.Fatalf("Failed to seed policy for %d: %v", def.Year, err)
		}
		log.Printf("Seeded built-in year policy %d", def.Year)
	}

	// Load an explicit definition file, if given
	if *policyPath != "" {
		pf := factory.NewPolicyFactory()
		def, err := pf.LoadDefinitionFile(*policyPath)
		if err != nil {
			log.Fatalf("Failed to load policy file: %v", err)
		}
		if err := store.SavePolicyDefinition(ctx, def); err != nil {
			log.Fatalf("Failed to store policy for %d: %v", def.Year, err)
		}
		log.Printf("Loaded year policy %d from %s", def.Year, *policyPath)
	}

	// Create router
	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
