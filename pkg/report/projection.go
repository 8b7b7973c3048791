// Package report builds the project report: a pure projection of project state
// into a Document, and a PDF renderer for it.
package report

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/stage"
)

const Unassigned = "Não atribuído"

type Attestation struct {
	SignerName string
	SignedAt   time.Time
	IP         string
	ImageURL   string
}

type StageBlock struct {
	ID          uint
	Ordinal     int
	Title       string
	Status      model.StageStatus
	StatusLabel string
	Color       string
	Responsible string
	ImageURLs   []string
	Attestation *Attestation
}

type Document struct {
	ProjectName  string
	ClientName   string
	StatusLabel  string
	StartDate    time.Time
	ExpectedDate time.Time
	CompletedAt  *time.Time
	Progress     int
	Approved     int
	Total        int
	Stages       []StageBlock
	Attestation  *Attestation
	LogoURL      string
	GeneratedAt  time.Time
	Filename     string
}

// Input carries all stages of the project; StageIDs optionally selects a subset.
type Input struct {
	Project     model.Project
	Stages      []stage.View
	StageIDs    []uint
	Signatures  []model.StageSignature
	LogoURL     string
	GeneratedAt time.Time
}

// Build selects the requested stages, orders them by ordinal and computes progress
// over the selection.
func Build(in Input) Document {
	selected := in.Stages
	if len(in.StageIDs) > 0 {
		wanted := lo.SliceToMap(in.StageIDs, func(id uint) (uint, struct{}) { return id, struct{}{} })
		selected = lo.Filter(in.Stages, func(v stage.View, _ int) bool {
			_, ok := wanted[v.ID]
			return ok
		})
	}
	selected = append([]stage.View(nil), selected...)
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Ordinal < selected[j].Ordinal })

	signed := lo.SliceToMap(
		lo.Filter(in.Signatures, func(s model.StageSignature, _ int) bool { return s.Signed() }),
		func(s model.StageSignature) (uint, model.StageSignature) { return s.StageID, s },
	)

	blocks := make([]StageBlock, 0, len(selected))
	approved := 0
	for i := range selected {
		v := &selected[i]
		if v.Status == model.StageApproved {
			approved++
		}
		block := StageBlock{
			ID:          v.ID,
			Ordinal:     v.Ordinal,
			Title:       v.Title,
			Status:      v.Status,
			StatusLabel: v.Status.Label(),
			Color:       v.Status.Color(),
			Responsible: responsibleNames(v.Responsibles),
			ImageURLs: lo.FilterMap(v.Attachments, func(a model.StageAttachment, _ int) (string, bool) {
				return a.URL, a.IsImage()
			}),
		}
		if sig, ok := signed[v.ID]; ok {
			block.Attestation = &Attestation{
				SignerName: lo.FromPtr(sig.SignerName),
				SignedAt:   *sig.SignedAt,
				IP:         lo.FromPtr(sig.SignerIP),
				ImageURL:   lo.FromPtr(sig.ImageURL),
			}
		}
		blocks = append(blocks, block)
	}

	doc := Document{
		ProjectName:  in.Project.Name,
		ClientName:   in.Project.ClientName,
		StatusLabel:  in.Project.Status.Label(),
		StartDate:    in.Project.StartDate,
		ExpectedDate: in.Project.ExpectedDate,
		CompletedAt:  in.Project.CompletedAt,
		Progress:     Progress(approved, len(blocks)),
		Approved:     approved,
		Total:        len(blocks),
		Stages:       blocks,
		LogoURL:      in.LogoURL,
		GeneratedAt:  in.GeneratedAt,
		Filename:     Filename(in.Project.Name),
	}
	p := in.Project
	if p.SignedAt != nil && lo.FromPtr(p.SignerName) != "" {
		doc.Attestation = &Attestation{
			SignerName: *p.SignerName,
			SignedAt:   *p.SignedAt,
			IP:         lo.FromPtr(p.SignerIP),
			ImageURL:   lo.FromPtr(p.SignatureImageURL),
		}
	}
	return doc
}

// Progress is the rounded percentage of approved stages.
func Progress(approved, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(approved) * 100 / float64(total)))
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename is relatorio-<lowercased name, whitespace runs replaced by '-'>.pdf.
func Filename(projectName string) string {
	return "relatorio-" + whitespaceRun.ReplaceAllString(strings.ToLower(projectName), "-") + ".pdf"
}

func responsibleNames(profiles []model.Profile) string {
	if len(profiles) == 0 {
		return Unassigned
	}
	return strings.Join(lo.Map(profiles, func(p model.Profile, _ int) string { return p.FullName }), ", ")
}

// ImageURLs lists every image the document embeds, logo first.
func (d *Document) ImageURLs() []string {
	urls := make([]string, 0)
	if d.LogoURL != "" {
		urls = append(urls, d.LogoURL)
	}
	for i := range d.Stages {
		urls = append(urls, d.Stages[i].ImageURLs...)
		if a := d.Stages[i].Attestation; a != nil && a.ImageURL != "" {
			urls = append(urls, a.ImageURL)
		}
	}
	if d.Attestation != nil && d.Attestation.ImageURL != "" {
		urls = append(urls, d.Attestation.ImageURL)
	}
	return lo.Uniq(urls)
}
