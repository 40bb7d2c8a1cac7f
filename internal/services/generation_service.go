package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"feed-service/internal/extract"
	"feed-service/internal/models"
	"feed-service/internal/refcatalog"
	"feed-service/internal/repository"
	"feed-service/internal/scheduler"
	"feed-service/internal/sheets"
)

// ErrGenerationInFlight means another run for the same feed holds the
// single-flight slot. Mapped to 409 by the handler, to a skipped tick by the
// scheduler.
var ErrGenerationInFlight = errors.New("feed generation already in flight")

// expected header keyword sets per destination class.
var (
	generalHeaderKeywords  = []string{"назван", "цена", "артикул", "бренд"}
	notebookHeaderKeywords = []string{"назван", "цена", "процессор", "оперативн"}
)

// GeneratorConfig carries the filesystem and URL layout of feed output.
type GeneratorConfig struct {
	TemplateDirs          []string
	SecondaryTemplatePath string
	NotebookSheetName     string
	OutputDir             string
	PublicBasePath        string // URL prefix the output dir is served under
}

// GenerationService orchestrates one feed generation run: routing, product
// selection, extraction, catalog matching, sheet writing, atomic save.
type GenerationService struct {
	feeds      repository.FeedRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	catalogs   *refcatalog.Service
	guard      *scheduler.RunGuard
	config     GeneratorConfig
	logger     *logrus.Logger

	mu          sync.RWMutex
	lastReports map[uuid.UUID]*models.GenerationReport
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	feeds repository.FeedRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	catalogs *refcatalog.Service,
	guard *scheduler.RunGuard,
	config GeneratorConfig,
	logger *logrus.Logger,
) *GenerationService {
	if logger == nil {
		logger = logrus.New()
	}
	if guard == nil {
		guard = scheduler.NewRunGuard(nil)
	}
	if config.NotebookSheetName == "" {
		config.NotebookSheetName = "Ноутбуки"
	}
	return &GenerationService{
		feeds:       feeds,
		products:    products,
		categories:  categories,
		catalogs:    catalogs,
		guard:       guard,
		config:      config,
		logger:      logger,
		lastReports: make(map[uuid.UUID]*models.GenerationReport),
	}
}

// Generate runs one generation for the feed. At most one run per feed id is
// in flight; a concurrent trigger gets ErrGenerationInFlight, never an
// interleaved write.
func (s *GenerationService) Generate(ctx context.Context, feedID uuid.UUID) (*models.GenerateResponse, error) {
	release, ok := s.guard.TryAcquire(feedID.String())
	if !ok {
		return nil, ErrGenerationInFlight
	}
	defer release()

	runCtx, cancel := context.WithTimeout(ctx, s.guard.RunTimeout())
	defer cancel()

	feed, err := s.feeds.GetByID(runCtx, feedID)
	if err != nil {
		return nil, err
	}

	report := &models.GenerationReport{
		FeedID:       feedID,
		StartedAt:    time.Now(),
		ExcludedSkus: sampleSkus(feed.Settings.ExcludeSkus),
	}

	resp, runErr := s.run(runCtx, feed, report)
	report.FinishedAt = time.Now()

	if runErr != nil {
		report.Status = models.RunStatusError
		report.Error = runErr.Error()
	} else {
		report.Status = models.RunStatusOK
		for _, cr := range report.Categories {
			if cr.SkipReason != "" {
				report.Status = models.RunStatusPartial
				break
			}
		}
	}

	s.storeReport(feedID, report)
	s.persistOutcome(ctx, feed, report)

	if runErr != nil {
		s.logger.WithError(runErr).WithField("feedId", feedID).Error("feed generation failed")
		return nil, runErr
	}
	resp.Report = report
	s.logger.WithFields(logrus.Fields{
		"feedId": feedID,
		"rows":   report.TotalRows,
		"file":   resp.FileName,
	}).Info("feed generated")
	return resp, nil
}

// RunScheduled adapts Generate to the scheduler's fire-and-forget contract:
// a busy feed is skipped, a failure waits for the next tick.
func (s *GenerationService) RunScheduled(feedID uuid.UUID) {
	_, err := s.Generate(context.Background(), feedID)
	if errors.Is(err, ErrGenerationInFlight) {
		s.logger.WithField("feedId", feedID).Warn("scheduled run skipped, previous run still active")
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("feedId", feedID).Error("scheduled run failed")
	}
}

// LastReport returns the most recent in-memory report for the feed, or nil.
func (s *GenerationService) LastReport(feedID uuid.UUID) *models.GenerationReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReports[feedID]
}

func (s *GenerationService) run(ctx context.Context, feed *models.FeedConfig, report *models.GenerationReport) (*models.GenerateResponse, error) {
	tree, err := s.categories.GetTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category tree: %w", err)
	}

	templatePath, err := sheets.DiscoverTemplate(s.config.TemplateDirs, generalHeaderKeywords)
	if err != nil {
		return nil, err
	}
	report.TemplatePath = templatePath

	workbook, err := sheets.BuildWorkbook(templatePath)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	router := NewRouter(tree, workbook.GetSheetList())
	if router.NeedsNotebookSheet(feed.Settings.Categories) {
		if _, ok := router.findSheet(NotebookSheetPattern); !ok && s.config.SecondaryTemplatePath != "" {
			if err := sheets.ImportSheet(workbook, s.config.SecondaryTemplatePath, s.config.NotebookSheetName); err != nil {
				s.logger.WithError(err).Warn("supplemental notebook sheet import failed")
			} else {
				router = NewRouter(tree, workbook.GetSheetList())
			}
		}
	}

	writer := sheets.NewWriter(workbook)

	for _, categoryID := range feed.Settings.Categories {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation run timed out: %w", err)
		}
		cr := s.generateCategory(ctx, feed, router, writer, categoryID)
		report.Categories = append(report.Categories, cr)
		report.TotalRows += cr.Appended
	}

	fileName := outputFileName(feed)
	outPath := filepath.Join(s.config.OutputDir, fileName)
	if err := sheets.SaveAtomic(workbook, outPath); err != nil {
		return nil, err
	}

	return &models.GenerateResponse{
		Path:     outPath,
		FileName: fileName,
		URL:      path.Join(s.config.PublicBasePath, fileName),
	}, nil
}

// generateCategory handles one configured category. Problems here are
// recovered into the report entry; they never abort the run.
func (s *GenerationService) generateCategory(ctx context.Context, feed *models.FeedConfig, router *Router, writer *sheets.Writer, categoryID uuid.UUID) models.CategoryReport {
	cr := models.CategoryReport{CategoryID: categoryID, CategoryName: router.Name(categoryID)}

	if cr.CategoryName == "" {
		cr.SkipReason = "category not found in tree"
		return cr
	}
	dest, ok := router.Resolve(categoryID)
	if !ok {
		cr.SkipReason = "no destination sheet for category"
		return cr
	}
	cr.Sheet = dest.Sheet

	filter := repository.ProductFilter{
		CategoryIDs:     router.Subtree(categoryID),
		OnlyActive:      feed.Settings.IncludeOnlyActive,
		OnlyInStock:     feed.Settings.IncludeOnlyInStock,
		ExcludeKeywords: feed.Settings.ExcludeKeywords,
		ExcludeSkus:     feed.Settings.ExcludeSkus,
	}
	products, err := s.products.ListForFeed(ctx, filter)
	if err != nil {
		cr.SkipReason = fmt.Sprintf("product query failed: %v", err)
		return cr
	}
	cr.Products = len(products)
	if len(products) == 0 {
		return cr
	}

	if err := writer.Initialize(dest.Sheet, headerKeywordsFor(dest)); err != nil {
		cr.SkipReason = fmt.Sprintf("sheet unusable: %v", err)
		return cr
	}

	catalog := s.catalogFor(dest)
	rows := make([]map[string]string, 0, len(products))
	for i := range products {
		rows = append(rows, s.buildRow(&products[i], catalog))
	}

	n, err := writer.AppendRows(dest.Sheet, rows)
	cr.Appended = n
	if err != nil {
		cr.SkipReason = fmt.Sprintf("row write failed: %v", err)
	}
	return cr
}

// buildRow derives the marketplace row for one product: extraction first,
// then catalog correction where a match lands.
func (s *GenerationService) buildRow(p *models.Product, catalog *refcatalog.Catalog) map[string]string {
	title := p.Title()
	attrs := extract.Extract(title)

	vendor, model, color := attrs.Vendor, attrs.Model, attrs.Color
	storageGB, ramGB := attrs.StorageGB, attrs.RAMGB
	var cpuName, osName string

	if m := catalog.Match(attrs, title); m != nil {
		vendor, model = m.Entry.Vendor, m.Entry.Model
		if m.Item != nil {
			if m.Item.Color != "" {
				color = m.Item.Color
			}
			if m.Item.StorageGB > 0 {
				storageGB = m.Item.StorageGB
			}
			if m.Item.RAMGB > 0 {
				ramGB = m.Item.RAMGB
			}
			osName = m.Item.OS
		}
		if len(m.Entry.CPUs) > 0 {
			cpuName = m.Entry.CPUs[0].Name
		}
	}

	row := map[string]string{
		"назван":  title,
		"цена":    strconv.FormatFloat(p.Price, 'f', -1, 64),
		"артикул": p.SKU,
		"бренд":   vendor,
		"модель":  model,
		"цвет":    color,
	}
	if storageGB > 0 {
		row["памят"] = fmt.Sprintf("%d ГБ", storageGB)
	}
	if ramGB > 0 {
		row["оперативн"] = fmt.Sprintf("%d ГБ", ramGB)
	}
	if cpuName != "" {
		row["процессор"] = cpuName
	}
	if osName != "" {
		row["операционн"] = osName
	}
	if img := p.FirstImage(); img != "" {
		row["фото"] = img
		row["изображен"] = img
	}
	row["остат"] = strconv.Itoa(p.StockQuantity)
	return row
}

func (s *GenerationService) catalogFor(dest Destination) *refcatalog.Catalog {
	switch dest.CatalogKind {
	case refcatalog.KindLaptops:
		return s.catalogs.Laptops()
	case refcatalog.KindPhones:
		return s.catalogs.Phones()
	default:
		return nil
	}
}

// persistOutcome records the run result on the feed's schedule state, with a
// context that survives run-timeout expiry.
func (s *GenerationService) persistOutcome(ctx context.Context, feed *models.FeedConfig, report *models.GenerationReport) {
	now := time.Now()
	feed.Schedule.LastRunAt = &now
	feed.Schedule.LastStatus = report.Status
	feed.Schedule.LastError = report.Error

	if err := s.feeds.Update(context.WithoutCancel(ctx), feed); err != nil {
		s.logger.WithError(err).WithField("feedId", feed.ID).Error("persisting run outcome failed")
	}
}

func (s *GenerationService) storeReport(feedID uuid.UUID, report *models.GenerationReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReports[feedID] = report
}

func headerKeywordsFor(dest Destination) []string {
	if dest.CatalogKind == refcatalog.KindLaptops {
		return notebookHeaderKeywords
	}
	return generalHeaderKeywords
}

func outputFileName(feed *models.FeedConfig) string {
	name := strings.TrimSpace(feed.Settings.OutputFileName)
	if name == "" {
		name = strings.ReplaceAll(strings.TrimSpace(feed.Name), " ", "_")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}

// sampleSkus keeps the report small when the exclusion list is long.
func sampleSkus(skus []string) []string {
	const max = 10
	if len(skus) <= max {
		return skus
	}
	return skus[:max]
}
