package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/mvail/pantry-tracker/internal/pantry"
	"github.com/mvail/pantry-tracker/internal/recipes"
	"github.com/mvail/pantry-tracker/internal/vision"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("pantry-tracker")
	var (
		port           = fs.IntLong("port", 3500, "HTTP server port")
		dbPath         = fs.StringLong("db", "pantry-tracker.db", "Database file path")
		detectorType   = fs.StringLong("detector", "openai", "Detector type: 'openai' or 'gemini'")
		openaiKey      = fs.StringLong("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		openaiModel    = fs.StringLong("openai-model", "gpt-4o-mini", "OpenAI model name")
		openaiURL      = fs.StringLong("openai-url", "", "OpenAI-compatible API base URL (default public endpoint)")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		spoonacularKey = fs.StringLong("spoonacular-key", "", "Spoonacular API key (or set SPOONACULAR_API_KEY env var)")
		spoonacularURL = fs.StringLong("spoonacular-url", "", "Spoonacular API base URL (default public endpoint)")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("PANTRY_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := pantry.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize detector based on type
	var detector vision.Detector
	switch *detectorType {
	case "openai":
		apiKey := *openaiKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("OpenAI API key is required. Set --openai-key flag or OPENAI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing OpenAI detector...", "model", *openaiModel)
		detector, err = vision.NewOpenAI(apiKey, *openaiModel, *openaiURL)
		if err != nil {
			slog.Error("Failed to initialize OpenAI", "error", err)
			os.Exit(1)
		}
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini detector...", "model", *geminiModel)
		detector, err = vision.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid detector type", "type", *detectorType, "valid", "openai or gemini")
		os.Exit(1)
	}
	defer detector.Close()

	// Initialize recipe client
	recipeKey := *spoonacularKey
	if recipeKey == "" {
		recipeKey = os.Getenv("SPOONACULAR_API_KEY")
	}
	if recipeKey == "" {
		slog.Warn("No Spoonacular API key configured; recipe endpoints will fail")
	}
	recipesClient := recipes.NewClient(recipeKey, *spoonacularURL)

	// Initialize service and server
	service := pantry.NewService(db, detector)
	server := pantry.NewServer(service, recipesClient)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
