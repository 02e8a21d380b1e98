package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/gommon/log"

	"librarian/pkg/analysis"
	"librarian/pkg/books"
	"librarian/pkg/inference"
	"librarian/pkg/ranking"
	"librarian/pkg/search"
	"librarian/pkg/server"
	"librarian/pkg/writing"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	openAI := inference.NewOpenAIInferencer(apiKey, model)
	if apiKey == "" {
		openAI.ChangeBaseURL("http://localhost:1234/v1")
		openAI.SetModel("")
	}
	var inf inference.Inferencer = openAI

	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		gemini, err := inference.NewGeminiInferencer(geminiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatalf("gemini client: %v", err)
		}
		inf = gemini
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	exa := search.NewExaClient(os.Getenv("EXA_API_KEY"), httpClient)
	tavily := search.NewTavilyClient(os.Getenv("TAVILY_API_KEY"), httpClient)

	parser := books.NewQueryParser(inf)
	booksClient := books.NewClient(os.Getenv("GOOGLE_BOOKS_API_KEY"), parser)
	analyzer := analysis.NewAnalyzer(inf, exa)
	finder := ranking.NewCandidatesFinder(inf, tavily)
	ranker := ranking.NewBookRanker(inf, analyzer)
	writer := writing.NewRecommendationsWriter(inf)

	srv := server.NewServer(ctx, booksClient, analyzer, finder, ranker, writer)
	srv.Echo.Logger.SetLevel(log.INFO)

	addr := ":8080"
	if envAddr := os.Getenv("PORT"); envAddr != "" {
		addr = ":" + envAddr
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatal(err)
		}
		done()
		close(finishedShutDown)
	}()

	log.Infof("The Librarian listening at %s", addr)
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err)
	}
	<-finishedShutDown
}
