package service

import (
	"context"
	"time"
)

// AnalysisStages son las etiquetas cosmeticas de la pantalla de analisis.
var AnalysisStages = []string{
	"Connecting to Gemini AI Neural Network...",
	"Analyzing industry benchmarks...",
	"Evaluating competitive landscape...",
	"Calculating growth trajectories...",
	"Finalizing strategic recommendations...",
}

const AnalysisStageInterval = 1200 * time.Millisecond

// AnalysisStageAt devuelve el indice de etapa para el tiempo transcurrido; se queda en la ultima.
func AnalysisStageAt(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	stage := int(elapsed / AnalysisStageInterval)
	if stage >= len(AnalysisStages) {
		return len(AnalysisStages) - 1
	}
	return stage
}

// RunProgressTicker invoca onStage con la etapa 0 y luego con cada avance,
// hasta la ultima etapa o hasta que ctx se cancele. No afecta a la maquina de estados.
func RunProgressTicker(ctx context.Context, interval time.Duration, onStage func(stage int)) {
	if interval <= 0 {
		interval = AnalysisStageInterval
	}
	onStage(0)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for stage := 1; stage < len(AnalysisStages); {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			onStage(stage)
			stage++
		}
	}
}
