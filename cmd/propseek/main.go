// Package main is the propseek CLI entry point.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/propseek/propseek/internal/config"
	"github.com/propseek/propseek/internal/corpus"
	"github.com/propseek/propseek/internal/dense"
	"github.com/propseek/propseek/internal/embedding"
	"github.com/propseek/propseek/internal/llm"
	"github.com/propseek/propseek/internal/models"
	"github.com/propseek/propseek/internal/search"
	"github.com/propseek/propseek/internal/sparse"
	"github.com/propseek/propseek/internal/transform"
	"github.com/propseek/propseek/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/propseek/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used instead.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "search":
		runSearch()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("propseek version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	query := fs.String("query", "", "search query")
	topK := fs.Int("top-k", 0, "number of results (0 uses the configured default)")
	denseLeg := fs.Bool("dense", true, "enable dense retrieval")
	sparseLeg := fs.Bool("sparse", true, "enable sparse retrieval")
	metadata := fs.Bool("metadata", true, "apply parsed metadata filters")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if *query == "" {
		fmt.Println("search requires -query")
		fs.Usage()
		os.Exit(1)
	}

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Debug("config loaded", zap.String("config_path", resolvedConfigPath))

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}

	req := &models.RetrievalRequest{
		Query:       *query,
		TopK:        *topK,
		UseDense:    *denseLeg,
		UseSparse:   *sparseLeg,
		UseMetadata: *metadata,
	}
	if req.TopK == 0 {
		req.TopK = cfg.Search.DefaultTopK
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	resp, err := comps.Engine.Search(ctx, req)
	if err != nil {
		logger.Fatal("Search failed", zap.Error(err))
	}
	printJSON(resp)
}

// runWatch keeps the indexes in sync with the corpus file and answers
// queries read line by line from stdin, one JSON response per query.
func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedConfigPath))

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()

	if cfg.Corpus.SQLitePath == "" {
		watchOpts := []corpus.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, corpus.WithWatchLogger(logger))
		}
		w := corpus.NewWatcher(cfg.Corpus.Path, func() {
			if err := reloadCorpus(watchCtx, cfg, comps, logger); err != nil {
				logger.Warn("corpus reload failed", zap.Error(err))
			}
		}, watchOpts...)
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		logger.Info("watching corpus", zap.String("path", cfg.Corpus.Path))
	}

	queries := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				queries <- line
			}
		}
		close(queries)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			logger.Info("Shutting down...")
			return
		case query, ok := <-queries:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(watchCtx, 30*time.Second)
			resp, err := comps.Engine.Search(ctx, &models.RetrievalRequest{
				Query:       query,
				TopK:        cfg.Search.DefaultTopK,
				UseDense:    true,
				UseSparse:   true,
				UseMetadata: true,
			})
			cancel()
			if err != nil {
				logger.Warn("search failed", zap.String("query", query), zap.Error(err))
				continue
			}
			printJSON(resp)
		}
	}
}

// components bundles the wired retrieval stack.
type components struct {
	Engine   *search.Engine
	Embedder embedding.Embedder
	Store    *dense.MemoryStore
	Sparse   *sparse.Retriever
}

// initializeComponents wires the providers, loads the corpus, and builds both
// indexes. Without an API key in the environment the mock providers stand in,
// which keeps the sparse and metadata legs fully usable offline.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	apiKey := os.Getenv(cfg.LLM.APIKeyEnv)

	var generator llm.Generator
	var embedder embedding.Embedder
	if apiKey != "" {
		generator = llm.NewClient(llm.ClientConfig{
			APIKey:      apiKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		})
		embedder = embedding.NewClient(embedding.ClientConfig{
			APIKey:     apiKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	} else {
		logger.Warn("no API key in environment, using offline providers",
			zap.String("env", cfg.LLM.APIKeyEnv))
		generator = &llm.MockGenerator{}
		embedder = &embedding.MockEmbedder{Dims: cfg.Embedding.Dimensions}
	}

	store, err := dense.NewMemoryStore(embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	transformer := transform.NewTransformer(generator,
		transform.WithTimeout(time.Duration(cfg.LLM.TimeoutSeconds)*time.Second),
		transform.WithHypothesisCap(cfg.Search.HypothesisCap),
		transform.WithLogger(logger),
	)

	comps := &components{
		Embedder: embedder,
		Store:    store,
		Sparse:   sparse.NewRetriever(logger),
	}
	comps.Engine = search.NewEngine(search.Config{
		Transformer: transformer,
		Dense:       dense.NewRetriever(store, logger),
		Sparse:      comps.Sparse,
		Embedder:    embedder,
		Candidates:  cfg.Search.Candidates,
		Logger:      logger,
	})

	if err := reloadCorpus(context.Background(), cfg, comps, logger); err != nil {
		return nil, err
	}
	return comps, nil
}

// reloadCorpus loads all listings from the configured source and rebuilds
// both indexes from scratch.
func reloadCorpus(ctx context.Context, cfg *config.Config, comps *components, logger *zap.Logger) error {
	listings, err := loadListings(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	vectors := make([][]float32, len(listings))
	for i, listing := range listings {
		vec, embedErr := comps.Embedder.Embed(ctx, listing.Title+" "+listing.Content)
		if embedErr != nil {
			logger.Warn("listing embedding failed, using zero vector",
				zap.String("id", listing.ID), zap.Error(embedErr))
			vec = embedding.ZeroVector(comps.Embedder.Dimensions())
		}
		vectors[i] = vec
	}
	if err := comps.Store.Replace(ctx, listings, vectors); err != nil {
		return fmt.Errorf("failed to index vectors: %w", err)
	}
	if err := comps.Sparse.Index(listings); err != nil {
		return fmt.Errorf("failed to build keyword index: %w", err)
	}

	logger.Info("corpus indexed", zap.Int("listings", len(listings)))
	return nil
}

func loadListings(ctx context.Context, cfg *config.Config) ([]models.Listing, error) {
	if cfg.Corpus.SQLitePath != "" {
		src, err := corpus.OpenSQLite(cfg.Corpus.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.Load(ctx)
	}
	return corpus.LoadFile(cfg.Corpus.Path)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Failed to encode response: %v\n", err)
	}
}

func printUsage() {
	fmt.Println(`propseek - hybrid listing search

Usage:
  propseek search -query <text> [-top-k N] [-dense] [-sparse] [-metadata] [-config path]
  propseek watch [-config path]     watch the corpus and answer stdin queries
  propseek version                  print version
  propseek help                     print this help

Flags common to commands:
  -config   config file path (default ` + defaultConfigPath + `)
  -debug    enable debug logging`)
}
