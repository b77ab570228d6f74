package main

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"growthmind/internal/domain"
	"growthmind/internal/service"
)

func TestPrintReportToleratesOutOfRangeScores(t *testing.T) {
	report := service.Report{
		Audit: domain.AuditResult{
			OverallScore: 50,
			EfficiencyMetrics: []domain.EfficiencyMetric{
				{Category: "Brand", Score: -15},
				{Category: "Team", Score: 250},
			},
		},
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	if !strings.Contains(buf.String(), "Brand") || !strings.Contains(buf.String(), "##########") {
		t.Fatalf("unexpected report output:\n%s", buf.String())
	}
}

func TestScoreBar(t *testing.T) {
	cases := map[int]int{-15: 0, 0: 0, 45: 4, 100: 10, 180: 10}
	for score, want := range cases {
		if got := len(scoreBar(score)); got != want {
			t.Fatalf("scoreBar(%d): expected %d marks, got %d", score, want, got)
		}
	}
}

func TestReadLineReturnsEOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("ultima"))
	line, err := readLine(reader, "")
	if err != nil || line != "ultima" {
		t.Fatalf("expected pending line without error, got %q %v", line, err)
	}
	if _, err := readLine(reader, ""); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestAskCatalogStopsOnClosedInput(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("99\n"))
	if _, err := askCatalog(reader, "Industria", domain.FieldIndustry, domain.Industries); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after invalid choice and closed input, got %v", err)
	}

	reader = bufio.NewReader(strings.NewReader("1\n"))
	updates, err := askCatalog(reader, "Industria", domain.FieldIndustry, domain.Industries)
	if err != nil || len(updates) != 1 || updates[0].Value != domain.Industries[0] {
		t.Fatalf("unexpected selection: %+v %v", updates, err)
	}
}
