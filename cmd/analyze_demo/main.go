package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"guardian/internal/ai"
	"guardian/internal/config"
	"guardian/internal/logger"
	"guardian/internal/modules/analysis"
	"guardian/internal/parser"
)

func main() {
	file := flag.String("file", "", "image or PDF to analyze")
	text := flag.String("text", "", "text to analyze")
	hint := flag.String("context", "", "optional background for detection")
	family := flag.String("family", string(analysis.FamilyBusiness), "personal_safety or business_document")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		log.Fatal(err)
	}

	in := analysis.RawInput{Text: *text, Context: *hint}
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("read %s: %v", *file, err)
		}
		in.ImageBytes = data
		in.ImageMIMEType = http.DetectContentType(data)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	llm, closeLLM, err := ai.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer closeLLM()

	extractor, err := parser.ForMode(cfg.Analysis.ParserMode)
	if err != nil {
		log.Fatal(err)
	}
	analyzers := analysis.NewLLMAnalyzers(llm, analysis.LLMOptions{
		Extractor: extractor,
		Retry:     analysis.RetryPolicy{MaxAttempts: cfg.Analysis.MaxRetries, Delay: cfg.Analysis.RetryDelay, CallTimeout: cfg.Analysis.Timeout},
		Logger:    lg,
	})
	svc := analysis.NewService(
		analysis.NewDetector(llm, extractor, lg),
		analysis.NewRouter(analyzers, analysis.RouterOptions{Threshold: cfg.Analysis.ConfidenceThreshold, Logger: lg}),
		analysis.ServiceOptions{Logger: lg},
	)

	var result any
	switch analysis.Family(*family) {
	case analysis.FamilyPersonal:
		result, err = svc.AnalyzeRequest(ctx, in)
	case analysis.FamilyBusiness:
		result, err = svc.AnalyzeDocument(ctx, in)
	default:
		log.Fatalf("unknown family %q", *family)
	}
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
