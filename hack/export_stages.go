// Usage: TAVLIST_DEBUG_CONFIG_PATH=${PWD}/etc/debug-config.yaml go run hack/export_stages.go
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/pkg/stage"
)

func main() {
	db := query.GetDB()

	var stages []model.Stage
	if err := db.Preload("Project").
		Preload("Assignees.Profile").
		Preload("Responsible").
		Order("project_id, ordinal").
		Find(&stages).Error; err != nil {
		panic(fmt.Errorf("failed to fetch stages: %w", err))
	}
	var signatures []model.StageSignature
	if err := db.Find(&signatures).Error; err != nil {
		panic(fmt.Errorf("failed to fetch signatures: %w", err))
	}
	byStage := lo.KeyBy(signatures, func(s model.StageSignature) uint { return s.StageID })

	file, err := os.Create("stages_export.csv")
	if err != nil {
		panic(fmt.Errorf("failed to create CSV file: %w", err))
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"ProjectID", "Project", "Client", "ProjectStatus",
		"StageID", "Ordinal", "Title", "Status", "DueDate", "ApprovedAt", "Responsibles",
		"SignatureRequested", "SignedAt", "SignerName", "SignerIP",
	}
	if err := writer.Write(headers); err != nil {
		panic(fmt.Errorf("failed to write CSV header: %w", err))
	}

	for i := range stages {
		var sig *model.StageSignature
		if s, ok := byStage[stages[i].ID]; ok {
			sig = &s
		}
		if err := writer.Write(stageToCSVRecord(&stages[i], sig)); err != nil {
			panic(fmt.Errorf("failed to write CSV record: %w", err))
		}
	}

	fmt.Printf("Successfully exported %d stages to stages_export.csv\n", len(stages))
}

func stageToCSVRecord(s *model.Stage, sig *model.StageSignature) []string {
	formatTime := func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	names := lo.Map(stage.MergeResponsibles(s.Assignees, s.Responsible), func(p model.Profile, _ int) string {
		return p.FullName
	})

	record := []string{
		fmt.Sprintf("%d", s.ProjectID),
		s.Project.Name,
		s.Project.ClientName,
		string(s.Project.Status),
		fmt.Sprintf("%d", s.ID),
		fmt.Sprintf("%d", s.Ordinal),
		s.Title,
		string(s.Status),
		formatTime(s.DueDate),
		formatTime(s.ApprovedAt),
		strings.Join(names, "; "),
		fmt.Sprintf("%t", sig != nil),
	}
	if sig == nil {
		return append(record, "", "", "")
	}
	return append(record,
		formatTime(sig.SignedAt),
		lo.FromPtr(sig.SignerName),
		lo.FromPtr(sig.SignerIP),
	)
}
