package report

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/metrics"
	"github.com/hubtav/tavlist/pkg/stage"
)

const (
	DefaultImageTimeout = 10 * time.Second
	DefaultTotalTimeout = 60 * time.Second
)

// Generator loads project state and produces the PDF report.
type Generator struct {
	db           *gorm.DB
	stages       *stage.Service
	fetcher      Fetcher
	imageTimeout time.Duration
	totalTimeout time.Duration
	defaultLogo  string
	now          func() time.Time
}

type Option func(*Generator)

func WithFetcher(f Fetcher) Option {
	return func(g *Generator) { g.fetcher = f }
}

// WithTimeouts bounds a single image download and the whole image phase.
func WithTimeouts(perImage, total time.Duration) Option {
	return func(g *Generator) {
		if perImage > 0 {
			g.imageTimeout = perImage
		}
		if total > 0 {
			g.totalTimeout = total
		}
	}
}

func WithDefaultLogo(url string) Option {
	return func(g *Generator) { g.defaultLogo = url }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(db *gorm.DB, stages *stage.Service, opts ...Option) *Generator {
	g := &Generator{
		db:           db,
		stages:       stages,
		imageTimeout: DefaultImageTimeout,
		totalTimeout: DefaultTotalTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.fetcher == nil {
		g.fetcher = NewHTTPFetcher(g.imageTimeout)
	}
	return g
}

type Result struct {
	Data     []byte
	Filename string
	Document *Document
}

// Document projects the current state of a project. An empty stageIDs selects
// every stage; an empty logoURL falls back to the configured default.
func (g *Generator) Document(ctx context.Context, projectID uint, stageIDs []uint, logoURL string) (*Document, error) {
	var project model.Project
	if err := g.db.WithContext(ctx).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Obra não encontrada")
		}
		return nil, err
	}
	views, err := g.stages.List(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var sigs []model.StageSignature
	ids := lo.Map(views, func(v stage.View, _ int) uint { return v.ID })
	if len(ids) > 0 {
		if err := g.db.WithContext(ctx).
			Where("stage_id IN ? AND signed_at IS NOT NULL", ids).
			Find(&sigs).Error; err != nil {
			return nil, err
		}
	}

	doc := Build(Input{
		Project:     project,
		Stages:      views,
		StageIDs:    stageIDs,
		Signatures:  sigs,
		LogoURL:     lo.Ternary(logoURL != "", logoURL, g.defaultLogo),
		GeneratedAt: g.now(),
	})
	return &doc, nil
}

// Generate renders the report. Images that fail to download are left out.
func (g *Generator) Generate(ctx context.Context, projectID uint, stageIDs []uint, logoURL string) (*Result, error) {
	doc, err := g.Document(ctx, projectID, stageIDs, logoURL)
	if err != nil {
		return nil, err
	}
	images := g.fetchImages(ctx, doc.ImageURLs())
	data, err := Render(doc, images)
	if err != nil {
		return nil, err
	}
	metrics.ReportsGenerated.Inc()
	klog.Infof("report generated for project %d: %d stages, %d images, %d bytes",
		projectID, doc.Total, len(images), len(data))
	return &Result{Data: data, Filename: doc.Filename, Document: doc}, nil
}

func (g *Generator) fetchImages(ctx context.Context, urls []string) map[string]*Image {
	images := make(map[string]*Image, len(urls))
	ctx, cancel := context.WithTimeout(ctx, g.totalTimeout)
	defer cancel()

	for i, url := range urls {
		if ctx.Err() != nil {
			klog.Warningf("report image budget exhausted, skipping %d images", len(urls)-i)
			break
		}
		imgCtx, imgCancel := context.WithTimeout(ctx, g.imageTimeout)
		img, err := g.fetcher.Fetch(imgCtx, url)
		imgCancel()
		if err != nil {
			klog.Warningf("skip report image %s: %v", url, err)
			continue
		}
		images[url] = img
	}
	return images
}
