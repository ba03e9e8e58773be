package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	servertiming "github.com/mitchellh/go-server-timing"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	queryparser "github.com/nlstn/go-queryparser"
	"github.com/nlstn/go-queryparser/fts"
)

var searchColumns = []string{"title", "body", "tags"}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	driver := flag.String("driver", "sqlite", "database driver (sqlite or postgres)")
	dsn := flag.String("dsn", ":memory:", "database DSN")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := openDatabase(*driver, *dsn)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := db.AutoMigrate(&Document{}); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sampleDocuments := GetSampleDocuments()
	if err := db.Create(&sampleDocuments).Error; err != nil {
		logger.Error("failed to seed database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("database initialized", slog.Int("documents", len(sampleDocuments)))

	manager := fts.NewManager(db)
	if !manager.Available() {
		logger.Error("database has no full-text-search support")
		os.Exit(1)
	}
	logger.Info("full-text search detected", slog.String("version", manager.Version()))

	if err := manager.EnsureTable("documents", searchColumns); err != nil {
		logger.Error("failed to create FTS table", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, doc := range sampleDocuments {
		err := manager.Index("documents", doc.ID, map[string]string{
			"title": doc.Title,
			"body":  doc.Body,
			"tags":  doc.Tags,
		})
		if err != nil {
			logger.Error("failed to index document", slog.Int64("id", doc.ID), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	registry, err := manager.Registry()
	if err != nil {
		logger.Error("failed to build FTS registry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	parser := queryparser.New(
		queryparser.WithRegistry(registry),
		queryparser.WithLogger(logger),
		queryparser.WithServiceName("queryparser-devserver"),
		queryparser.WithServerTiming(),
	)

	mux := http.NewServeMux()
	mux.Handle("/search", searchHandler(parser, manager, db, logger))

	handler := requestIDMiddleware(logger, servertiming.Middleware(mux, nil))

	fmt.Println("🚀 Development search server starting...")
	fmt.Println("Endpoints:")
	fmt.Printf("  Search:  http://localhost%s/search?q=goroutines\n", *addr)
	fmt.Printf("           http://localhost%s/search?q=title:(go+OR+sqlite)\n", *addr)
	fmt.Printf("           http://localhost%s/search?q=NOT+postgres\n", *addr)
	fmt.Println()

	if err := http.ListenAndServe(*addr, handler); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}

type searchResponse struct {
	Query   string     `json:"query"`
	Match   string     `json:"match"`
	Results []Document `json:"results"`
}

func searchHandler(parser *queryparser.Parser, manager *fts.Manager, db *gorm.DB, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, "missing q parameter", http.StatusBadRequest)
			return
		}

		built, err := parser.Parse(r.Context(), query, "body")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		match, ok := built.(*fts.MatchQuery)
		if !ok {
			http.Error(w, "query did not compile to a match expression", http.StatusInternalServerError)
			return
		}

		tx, err := manager.ApplySearch(db.WithContext(r.Context()).Table("documents"), "documents", searchColumns, match)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		var results []Document
		if err := tx.Order("id").Find(&results).Error; err != nil {
			logger.ErrorContext(r.Context(), "search query failed",
				slog.String("query", query),
				slog.String("error", err.Error()))
			http.Error(w, "search failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(searchResponse{
			Query:   query,
			Match:   match.String(),
			Results: results,
		}); err != nil {
			logger.ErrorContext(r.Context(), "failed to encode response", slog.String("error", err.Error()))
		}
	})
}
