package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/rs/zerolog"

	solve "crosswarped.com/wordsolve"
	"crosswarped.com/wordsolve/internal/bqsource"
	"crosswarped.com/wordsolve/internal/config"
	"crosswarped.com/wordsolve/pkg/dictionary"
)

const (
	defaultMaxWords = 100
	maxMaxWords     = 5000
)

type GuessRow struct {
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"`
}

type SolveRequest struct {
	Pattern  string     `json:"pattern"`
	Unused   string     `json:"unused"`
	Unplaced string     `json:"unplaced"`
	Rows     []GuessRow `json:"rows"`
	MaxWords int        `json:"maxWords"`
}

type SolveResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Words   []string `json:"words"`
	Error   string   `json:"error,omitempty"`
}

type server struct {
	dict   *dictionary.Dictionary
	rows   int
	logger zerolog.Logger
}

func loadDictionary(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*dictionary.Dictionary, error) {
	opts := []dictionary.Option{
		dictionary.WithLogger(logger),
		dictionary.WithDuplicates(cfg.DuplicatePolicy()),
	}

	if cfg.BigQuery.Table == "" {
		if cfg.Dictionary.Path == "" {
			return nil, errors.New("either dictionary.path or bigquery.table must be set")
		}
		d, _, err := dictionary.LoadFile(cfg.Dictionary.Path, cfg.WordSize(), opts...)
		return d, err
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQuery.Project)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	logger.Info().Str("table", cfg.BigQuery.Table).Str("scope", cfg.BigQuery.Scope).Msg("Loading words from BigQuery")
	src, err := bqsource.New(ctx, client, bqsource.Params{
		Table:    cfg.BigQuery.Table,
		Column:   cfg.BigQuery.Column,
		Scope:    cfg.BigQuery.Scope,
		Location: "US",
	})
	if err != nil {
		return nil, err
	}
	d, _, err := dictionary.Build(src, cfg.WordSize(), opts...)
	return d, err
}

func (s *server) constraints(req SolveRequest) (solve.Constraints, error) {
	switch {
	case len(req.Rows) > 0 && req.Pattern != "":
		return solve.Constraints{}, errors.New("give either pattern or rows, not both")

	case len(req.Rows) > 0:
		for i, row := range req.Rows {
			if row.Guess == "" {
				return solve.Constraints{}, fmt.Errorf("row %d: empty guess", i+1)
			}
		}
		board := solve.NewBoard(max(s.rows, len(req.Rows)), len(req.Rows[0].Guess))
		for _, row := range req.Rows {
			if err := board.AddGuess(row.Guess, row.Feedback); err != nil {
				return solve.Constraints{}, err
			}
		}
		return board.Constraints()

	case req.Pattern != "":
		return solve.ParsePattern(req.Pattern, req.Unused, req.Unplaced)
	}

	return solve.Constraints{}, errors.New("pattern or rows must be given")
}

func (s *server) execute(ctx context.Context, req SolveRequest) ([]string, int, error) {
	if req.MaxWords < 0 {
		return nil, 0, fmt.Errorf("maxWords must not be negative")
	}
	if req.MaxWords == 0 {
		req.MaxWords = defaultMaxWords
	}
	if req.MaxWords > maxMaxWords {
		return nil, 0, fmt.Errorf("maxWords must be at most %d", maxMaxWords)
	}

	c, err := s.constraints(req)
	if err != nil {
		return nil, 0, err
	}

	deadline, ok := ctx.Deadline()
	timeout := 1 * time.Minute
	if ok {
		timeout = time.Until(deadline) - 5*time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	words := []string{}
	count := 0
	for id := range solve.Words(s.dict, c) {
		if ctx.Err() != nil {
			break
		}
		count++
		if len(words) < req.MaxWords {
			words = append(words, s.dict.WordAt(id))
		}
	}

	s.logger.Info().Stringer("constraints", c).Int("count", count).Msg("Solved")
	return words, count, ctx.Err()
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func (s *server) handleSolve(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Error parsing JSON body")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SolveResponse{
			Error: fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}

	words, count, err := s.execute(r.Context(), req)

	response := SolveResponse{
		Success: err == nil,
		Count:   count,
		Words:   words,
	}
	if err != nil {
		response.Error = err.Error()
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error().Err(err).Msg("Error marshaling response")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
		return
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"words":  s.dict.WordCount(),
	})
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(os.Getenv("WORDSOLVE_CONFIG"))
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading config")
	}
	logger = logger.Level(cfg.LogLevel())

	d, err := loadDictionary(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading dictionary")
	}

	s := &server{dict: d, rows: cfg.Board.Rows, logger: logger}
	funcframework.RegisterHTTPFunction("/solve", s.handleSolve)
	funcframework.RegisterHTTPFunction("/healthz", s.handleHealth)

	port := fmt.Sprint(cfg.Server.Port)
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := cfg.Server.Host
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		logger.Fatal().Err(err).Msg("funcframework.StartHostPort")
	}
}
