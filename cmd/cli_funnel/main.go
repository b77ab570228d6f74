package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"growthmind/internal/config"
	"growthmind/internal/domain"
	"growthmind/internal/llm"
	"growthmind/internal/repository"
	"growthmind/internal/service"
)

// errBack indica que el usuario pidio volver al paso anterior.
var errBack = errors.New("back")

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewNop()
	if os.Getenv("CLI_DEBUG") != "" {
		logger = zap.NewExample()
	}
	defer logger.Sync()

	llmClient, closeLLM, err := llm.NewClient(ctx, cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLLM()

	auditSvc := service.NewAuditService(llmClient, nil, logger)
	funnelSvc := service.NewFunnelService(repository.NewMemorySessionRepository(0), auditSvc, nil, nil, logger, cfg.AnalyzingMinDuration)

	sess, err := funnelSvc.CreateSession(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("===== GrowthMind AI =====")
	fmt.Println("Unlock Your Business's Hidden Growth Potential")
	fmt.Print("Presiona Enter para comenzar la evaluacion... ")
	_, _ = reader.ReadString('\n')

	if _, err := funnelSvc.Start(ctx, sess.ID); err != nil {
		log.Fatal(err)
	}

	if err := assessmentFlow(ctx, reader, funnelSvc, sess.ID); errors.Is(err, io.EOF) {
		fmt.Println("\nEntrada cerrada, saliendo.")
		return
	} else if err != nil {
		log.Fatalf("evaluacion: %v", err)
	}

	sess, err = analyzeFlow(ctx, funnelSvc, sess.ID)
	if err != nil {
		log.Fatalf("analisis: %v", err)
	}

	fmt.Printf("\nTu puntaje de crecimiento: %d/100\n", sess.Audit.OverallScore)
	fmt.Println("Deja tus datos para ver el reporte completo.")
	if err := leadFlow(ctx, reader, funnelSvc, sess.ID); errors.Is(err, io.EOF) {
		fmt.Println("\nEntrada cerrada, saliendo.")
		return
	} else if err != nil {
		log.Fatalf("contacto: %v", err)
	}

	report, err := funnelSvc.Results(ctx, sess.ID)
	if err != nil {
		log.Fatalf("resultados: %v", err)
	}
	printReport(os.Stdout, report)
	funnelSvc.Wait()
}

func assessmentFlow(ctx context.Context, reader *bufio.Reader, funnelSvc *service.FunnelService, id string) error {
	for {
		sess, err := funnelSvc.GetSession(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("\n--- Paso %d de %d ---\n", sess.Step, domain.AssessmentSteps)

		var updates []service.ProfileUpdate
		switch sess.Step {
		case 1:
			updates, err = askCatalog(reader, "Industria", domain.FieldIndustry, domain.Industries)
			if err == nil {
				var role string
				role, err = readLine(reader, "Tu rol (ej: CEO, Marketing Director): ")
				updates = append(updates, service.ProfileUpdate{Field: domain.FieldRole, Value: role})
			}
		case 2:
			updates, err = askCatalog(reader, "Tamano de la empresa", domain.FieldCompanySize, domain.CompanySizes)
			if err == nil {
				var more []service.ProfileUpdate
				more, err = askCatalog(reader, "Facturacion mensual", domain.FieldRevenueRange, domain.RevenueRanges)
				updates = append(updates, more...)
			}
		case 3:
			updates, err = askCatalog(reader, "Principal desafio", domain.FieldPrimaryChallenge, domain.Challenges)
		case 4:
			updates, err = askChannels(reader, sess.Profile)
		}

		if errors.Is(err, errBack) {
			if _, err := funnelSvc.PrevStep(ctx, id); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		if _, err := funnelSvc.UpdateProfile(ctx, id, updates); err != nil {
			fmt.Printf("Valor invalido: %v\n", err)
			continue
		}
		if sess.Step == domain.AssessmentSteps {
			sess, err = funnelSvc.GetSession(ctx, id)
			if err != nil {
				return err
			}
			if sess.Profile.IsComplete() {
				return nil
			}
			fmt.Println("Selecciona al menos un canal.")
			continue
		}
		if _, err := funnelSvc.NextStep(ctx, id); err != nil {
			if errors.Is(err, domain.ErrStepInvalid) {
				fmt.Println("Completa todos los campos para continuar.")
				continue
			}
			return err
		}
	}
}

// analyzeFlow bloquea mientras corre la auditoria y muestra las etapas cosmeticas.
func analyzeFlow(ctx context.Context, funnelSvc *service.FunnelService, id string) (domain.Session, error) {
	tickCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.RunProgressTicker(tickCtx, service.AnalysisStageInterval, func(stage int) {
			fmt.Printf("  %s\n", service.AnalysisStages[stage])
		})
	}()

	sess, err := funnelSvc.SubmitAssessment(ctx, id)
	cancel()
	<-done
	if err != nil {
		return domain.Session{}, err
	}
	if sess.AuditSource == domain.AuditSourceFallback {
		fmt.Println("  (la IA no respondio, se muestra un reporte de referencia)")
	}
	return sess, nil
}

func leadFlow(ctx context.Context, reader *bufio.Reader, funnelSvc *service.FunnelService, id string) error {
	for {
		var contact domain.ContactInfo
		for _, f := range []struct {
			prompt string
			dst    *string
		}{
			{"Nombre: ", &contact.Name},
			{"Email: ", &contact.Email},
			{"Empresa: ", &contact.CompanyName},
		} {
			v, err := readLine(reader, f.prompt)
			if err != nil {
				return err
			}
			*f.dst = v
		}
		_, err := funnelSvc.SubmitLead(ctx, id, contact)
		var verr *domain.ContactValidationError
		if errors.As(err, &verr) {
			for _, field := range []string{"name", "email", "company_name"} {
				if msg, ok := verr.Fields[field]; ok {
					fmt.Printf("  %s\n", msg)
				}
			}
			continue
		}
		return err
	}
}

func askCatalog(reader *bufio.Reader, label, field string, options []string) ([]service.ProfileUpdate, error) {
	for {
		fmt.Printf("%s:\n", label)
		for i, opt := range options {
			fmt.Printf("[%d] %s\n", i+1, opt)
		}
		fmt.Println("[B] Volver")
		choice, err := readLine(reader, "Selecciona una opcion: ")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(choice, "B") {
			return nil, errBack
		}
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(options) {
			fmt.Println("Seleccion invalida.")
			continue
		}
		return []service.ProfileUpdate{{Field: field, Value: options[idx-1]}}, nil
	}
}

// askChannels alterna canales hasta que el usuario escribe "listo".
func askChannels(reader *bufio.Reader, profile domain.BusinessProfile) ([]service.ProfileUpdate, error) {
	selected := profile.Clone()
	var updates []service.ProfileUpdate
	for {
		fmt.Println("Canales de marketing actuales (elige uno o mas):")
		for i, ch := range domain.MarketingChannels {
			mark := " "
			for _, s := range selected.MarketingChannels {
				if s == ch {
					mark = "x"
				}
			}
			fmt.Printf("[%d] [%s] %s\n", i+1, mark, ch)
		}
		fmt.Println("[B] Volver   [L] Listo")
		choice, err := readLine(reader, "Selecciona: ")
		if err != nil {
			return nil, err
		}
		switch {
		case strings.EqualFold(choice, "B"):
			return nil, errBack
		case strings.EqualFold(choice, "L"), strings.EqualFold(choice, "listo"):
			return updates, nil
		}
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(domain.MarketingChannels) {
			fmt.Println("Seleccion invalida.")
			continue
		}
		ch := domain.MarketingChannels[idx-1]
		selected.ToggleChannel(ch)
		updates = append(updates, service.ProfileUpdate{Field: domain.FieldMarketingChannel, Value: ch})
	}
}

func printReport(w io.Writer, r service.Report) {
	a := r.Audit
	fmt.Fprintf(w, "\n===== Growth Audit: %s =====\n", r.Contact.CompanyName)
	fmt.Fprintf(w, "Puntaje general: %d/100 (%s)\n", a.OverallScore, r.ScoreBand)
	fmt.Fprintf(w, "\n%s\n", a.ExecutiveSummary)

	fmt.Fprintln(w, "\nFortalezas:")
	for _, s := range a.Strengths {
		fmt.Fprintf(w, "  + %s\n", s)
	}
	fmt.Fprintln(w, "Debilidades:")
	for _, wk := range a.Weaknesses {
		fmt.Fprintf(w, "  - %s\n", wk)
	}

	fmt.Fprintln(w, "\nRecomendaciones:")
	for i, rec := range a.Recommendations {
		fmt.Fprintf(w, "  %d. %s [impacto %s, esfuerzo %s]\n     %s\n", i+1, rec.Title, rec.Impact, rec.Effort, rec.Description)
	}

	fmt.Fprintln(w, "\nProyeccion de ingresos (actual -> potencial):")
	for _, p := range a.RevenueProjection {
		fmt.Fprintf(w, "  %-4s %8.1f -> %8.1f\n", p.Name, p.Current, p.Potential)
	}

	fmt.Fprintln(w, "\nEficiencia:")
	for _, m := range a.EfficiencyMetrics {
		fmt.Fprintf(w, "  %-12s %3d %s\n", m.Category, m.Score, scoreBar(m.Score))
	}
}

// scoreBar dibuja de 0 a 10 marcas; el modelo puede devolver puntajes fuera de 0..100.
func scoreBar(score int) string {
	return strings.Repeat("#", max(0, min(score, 100))/10)
}

// readLine devuelve io.EOF solo si la entrada se cerro sin datos pendientes.
func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
