package refcatalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"feed-service/internal/extract"
	"feed-service/internal/normalize"
)

// ErrCatalogUnavailable is returned when a reference catalog document cannot
// be read. Matching degrades to uncorrected extraction; never fatal.
var ErrCatalogUnavailable = errors.New("reference catalog unavailable")

const (
	KindPhones  = "phones"
	KindLaptops = "laptops"
)

// Service owns the two reference catalogs as an explicit process-wide cache:
// loaded on first use, swapped atomically on Reload, never implicitly
// invalidated.
type Service struct {
	phonesPath  string
	laptopsPath string
	logger      *logrus.Logger

	mu      sync.RWMutex
	phones  *Catalog
	laptops *Catalog
	loaded  bool
}

// NewService creates a catalog service reading from the given document paths.
func NewService(phonesPath, laptopsPath string, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{phonesPath: phonesPath, laptopsPath: laptopsPath, logger: logger}
}

// Load parses both catalog documents. A failed document is logged and left
// empty; the other one still loads. Subsequent calls are no-ops until Reload.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	return s.loadLocked()
}

// Reload discards the cached catalogs and parses the documents again.
func (s *Service) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Service) loadLocked() error {
	var firstErr error

	phones, err := loadCatalogFile(s.phonesPath, KindPhones)
	if err != nil {
		s.logger.WithError(err).WithField("path", s.phonesPath).Warn("phone catalog load failed")
		firstErr = err
		phones = nil
	}
	laptops, err := loadCatalogFile(s.laptopsPath, KindLaptops)
	if err != nil {
		s.logger.WithError(err).WithField("path", s.laptopsPath).Warn("laptop catalog load failed")
		if firstErr == nil {
			firstErr = err
		}
		laptops = nil
	}

	s.phones = phones
	s.laptops = laptops
	s.loaded = true

	if firstErr != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, firstErr)
	}
	s.logger.WithFields(logrus.Fields{
		"phones":  len(phones.Entries),
		"laptops": len(laptops.Entries),
	}).Info("reference catalogs loaded")
	return nil
}

// Phones returns the phone catalog, loading lazily on first use. Returns nil
// when the document could not be read.
func (s *Service) Phones() *Catalog {
	return s.get(func() *Catalog { return s.phones })
}

// Laptops returns the laptop catalog, loading lazily on first use.
func (s *Service) Laptops() *Catalog {
	return s.get(func() *Catalog { return s.laptops })
}

func (s *Service) get(pick func() *Catalog) *Catalog {
	s.mu.RLock()
	if s.loaded {
		c := pick()
		s.mu.RUnlock()
		return c
	}
	s.mu.RUnlock()
	_ = s.Load() // degrade on error: pick() below yields nil for the failed side
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pick()
}

func loadCatalogFile(path, kind string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if kind == KindLaptops {
		return ParseLaptopCatalog(f)
	}
	return ParsePhoneCatalog(f)
}

// ParsePhoneCatalog reads a tab-indented phone document:
//
//	Vendor
//		Model
//			128 ГБ
//				Чёрный | 4
//
// The color line optionally carries RAM in GB after a pipe. Unknown or
// malformed lines are skipped.
func ParsePhoneCatalog(r io.Reader) (*Catalog, error) {
	cat := &Catalog{Kind: KindPhones}
	var (
		vendor   string
		entry    *Entry
		memoryGB int
	)

	flush := func() {
		if entry != nil && len(entry.Items) > 0 {
			cat.Entries = append(cat.Entries, *entry)
		}
		entry = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		depth, text := indentDepth(scanner.Text())
		if text == "" {
			continue
		}
		switch depth {
		case 0:
			flush()
			vendor = text
			memoryGB = 0
		case 1:
			flush()
			entry = &Entry{Vendor: vendor, Model: text, Normalized: normalize.Clean(text)}
			memoryGB = 0
		case 2:
			memoryGB = extract.ExtractMemoryGB(text)
		case 3:
			if entry == nil || memoryGB == 0 {
				continue
			}
			color, ram := splitColorRAM(text)
			entry.Items = append(entry.Items, Item{StorageGB: memoryGB, Color: color, RAMGB: ram})
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cat, nil
}

// ParseLaptopCatalog reads a tab-indented laptop document:
//
//	Vendor
//		Model
//			cpu: M3 | Apple M3 | 8
//			8/512 | macOS | Серебристый | SSD | integrated
//
// Variant lines are "ram/storage | os | color | disk | gpu"; trailing fields
// may be omitted.
func ParseLaptopCatalog(r io.Reader) (*Catalog, error) {
	cat := &Catalog{Kind: KindLaptops}
	var (
		vendor string
		entry  *Entry
	)

	flush := func() {
		if entry != nil && len(entry.Items) > 0 {
			cat.Entries = append(cat.Entries, *entry)
		}
		entry = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		depth, text := indentDepth(scanner.Text())
		if text == "" {
			continue
		}
		switch depth {
		case 0:
			flush()
			vendor = text
		case 1:
			flush()
			entry = &Entry{Vendor: vendor, Model: text, Normalized: normalize.Clean(text)}
		case 2:
			if entry == nil {
				continue
			}
			if cpu, ok := parseCPULine(text); ok {
				entry.CPUs = append(entry.CPUs, cpu)
				continue
			}
			if item, ok := parseLaptopVariant(text); ok {
				entry.Items = append(entry.Items, item)
			}
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cat, nil
}

func indentDepth(line string) (int, string) {
	depth := 0
	for _, r := range line {
		if r != '\t' {
			break
		}
		depth++
	}
	return depth, strings.TrimSpace(line)
}

func splitColorRAM(line string) (string, int) {
	parts := strings.SplitN(line, "|", 2)
	color := strings.TrimSpace(parts[0])
	ram := 0
	if len(parts) == 2 {
		ram, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return color, ram
}

func parseCPULine(line string) (CPU, bool) {
	if !strings.HasPrefix(strings.ToLower(line), "cpu:") {
		return CPU{}, false
	}
	rest := strings.TrimSpace(line[len("cpu:"):])
	parts := strings.Split(rest, "|")
	cpu := CPU{Line: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		cpu.Name = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		cpu.Cores, _ = strconv.Atoi(strings.TrimSpace(parts[2]))
	}
	return cpu, cpu.Line != ""
}

func parseLaptopVariant(line string) (Item, bool) {
	parts := strings.Split(line, "|")
	pair := extract.ParsePair(strings.TrimSpace(parts[0]))
	if pair.StorageGB == 0 {
		return Item{}, false
	}
	item := Item{RAMGB: pair.RAMGB, StorageGB: pair.StorageGB}
	fields := []*string{nil, &item.OS, &item.Color, &item.Disk, &item.GPUType}
	for i := 1; i < len(parts) && i < len(fields); i++ {
		*fields[i] = strings.TrimSpace(parts[i])
	}
	return item, true
}
