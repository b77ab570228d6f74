package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"growthmind/internal/config"
	"growthmind/internal/domain"
	"growthmind/internal/llm"
	"growthmind/internal/service"
)

const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

// audit_check corre perfiles de prueba contra el modelo real y revisa el contenido de cada auditoria.
func main() {
	scenariosPath := flag.String("scenarios", "", "archivo YAML con escenarios (opcional)")
	flag.Parse()

	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.LLMAPIKey == "" {
		log.Fatal("LLM_API_KEY is required for audit_check")
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	llmClient, closeLLM, err := llm.NewClient(ctx, cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLLM()

	auditSvc := service.NewAuditService(llmClient, nil, logger)

	scenarios := defaultScenarios()
	if *scenariosPath != "" {
		scenarios, err = loadScenarios(*scenariosPath)
		if err != nil {
			log.Fatalf("scenarios: %v", err)
		}
	}

	var live, fallback, flagged, totalScore int
	for _, sc := range scenarios {
		fmt.Printf("%s[%s]%s esperado: %s\n", colorCyan, sc.Name, colorReset, sc.Expected)

		out := auditSvc.Generate(ctx, sc.Profile)
		if out.Source == domain.AuditSourceFallback {
			fallback++
			fmt.Printf("%s  fallback%s: %v\n\n", colorYellow, colorReset, out.Err)
			continue
		}
		live++
		totalScore += out.Result.OverallScore

		issues := checkAudit(out.Result)
		if !mentionsChallenge(out.Result, sc.Profile.PrimaryChallenge) {
			issues = append(issues, "ninguna recomendacion menciona el desafio principal")
		}

		fmt.Printf("%s  score %d (%s)%s %s\n", colorGreen, out.Result.OverallScore, domain.ScoreBand(out.Result.OverallScore), colorReset, out.Result.ExecutiveSummary)
		for _, rec := range out.Result.Recommendations {
			fmt.Printf("  - %s [%s/%s]\n", rec.Title, rec.Impact, rec.Effort)
		}
		if len(issues) > 0 {
			flagged++
			for _, issue := range issues {
				fmt.Printf("%s  ! %s%s\n", colorYellow, issue, colorReset)
			}
		}
		fmt.Println()
	}

	fmt.Println("==== Resumen ====")
	fmt.Printf("Live: %d | Fallback: %d | Con observaciones: %d\n", live, fallback, flagged)
	if live > 0 {
		fmt.Printf("Score promedio: %.1f\n", float64(totalScore)/float64(live))
	}
	if fallback > 0 || flagged > 0 {
		os.Exit(1)
	}
}
