package services

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"feed-service/internal/models"
	"feed-service/internal/refcatalog"
)

// Destination is the resolved target for one category: a sheet in the output
// workbook plus the reference catalog that corrects its titles.
type Destination struct {
	Sheet       string
	CatalogKind string // refcatalog.KindPhones, KindLaptops or ""
}

// routeClass binds a category-ancestry pattern to a sheet-title pattern.
// Evaluated in order; the notebook class goes first so "Ноутбуки Apple"
// under an "Электроника" root is never mistaken for a phone category.
type routeClass struct {
	catalogKind string
	category    *regexp.Regexp
	sheet       *regexp.Regexp
}

var routeClasses = []routeClass{
	{refcatalog.KindLaptops, regexp.MustCompile(`(?i)ноутбук|макбук|macbook|laptop|notebook`), regexp.MustCompile(`(?i)ноутбук|laptop|notebook`)},
	{refcatalog.KindPhones, regexp.MustCompile(`(?i)телефон|смартфон|smartphone|мобильн`), regexp.MustCompile(`(?i)телефон|смартфон|phone`)},
	{"", regexp.MustCompile(`(?i)планшет|tablet|ipad`), regexp.MustCompile(`(?i)планшет|tablet`)},
	{"", regexp.MustCompile(`(?i)часы|watch|браслет`), regexp.MustCompile(`(?i)часы|watch`)},
	{"", regexp.MustCompile(`(?i)наушник|акустик|колонк|headphone|audio`), regexp.MustCompile(`(?i)наушник|аудио|audio`)},
}

// NotebookSheetPattern is exposed for the template engine's supplemental
// sheet decision.
var NotebookSheetPattern = routeClasses[0].sheet

// Router maps store categories onto destination sheets of a concrete
// workbook. Built per generation run from the category tree and the
// workbook's actual sheet list.
type Router struct {
	names    map[uuid.UUID]string
	parents  map[uuid.UUID]uuid.UUID
	children map[uuid.UUID][]uuid.UUID
	sheets   []string
}

// NewRouter builds a router over the category tree and sheet titles.
func NewRouter(categories []models.Category, sheets []string) *Router {
	r := &Router{
		names:    make(map[uuid.UUID]string, len(categories)),
		parents:  make(map[uuid.UUID]uuid.UUID),
		children: make(map[uuid.UUID][]uuid.UUID),
		sheets:   sheets,
	}
	for _, c := range categories {
		r.names[c.ID] = c.Name
		if c.ParentID != nil {
			r.parents[c.ID] = *c.ParentID
			r.children[*c.ParentID] = append(r.children[*c.ParentID], c.ID)
		}
	}
	return r
}

// Name returns the category's name or "".
func (r *Router) Name(id uuid.UUID) string {
	return r.names[id]
}

// Resolve maps a category to exactly one destination sheet: first by
// ancestry pattern class, then by direct sheet-title lookup. Returns false
// when the category routes nowhere; the caller records the skip.
func (r *Router) Resolve(id uuid.UUID) (Destination, bool) {
	ancestry := r.ancestry(id)
	if len(ancestry) == 0 {
		return Destination{}, false
	}

	for _, class := range routeClasses {
		for _, name := range ancestry {
			if !class.category.MatchString(name) {
				continue
			}
			if sheet, ok := r.findSheet(class.sheet); ok {
				return Destination{Sheet: sheet, CatalogKind: class.catalogKind}, true
			}
			// the workbook carries no sheet for this class; the category's
			// own name may still match a sheet title directly
			return r.resolveByTitle(ancestry[0])
		}
	}
	return r.resolveByTitle(ancestry[0])
}

// resolveByTitle matches the category's own name against sheet titles.
func (r *Router) resolveByTitle(name string) (Destination, bool) {
	own := strings.ToLower(strings.TrimSpace(name))
	for _, sheet := range r.sheets {
		if strings.ToLower(strings.TrimSpace(sheet)) == own {
			return Destination{Sheet: sheet}, true
		}
	}
	return Destination{}, false
}

// Subtree returns the category and all of its recursive descendants.
func (r *Router) Subtree(id uuid.UUID) []uuid.UUID {
	if _, ok := r.names[id]; !ok {
		return nil
	}
	out := []uuid.UUID{id}
	for i := 0; i < len(out); i++ {
		out = append(out, r.children[out[i]]...)
	}
	return out
}

// NeedsNotebookSheet reports whether any selected category's ancestry falls
// into the notebook class, which drives the supplemental sheet import.
func (r *Router) NeedsNotebookSheet(ids []uuid.UUID) bool {
	for _, id := range ids {
		for _, name := range r.ancestry(id) {
			if routeClasses[0].category.MatchString(name) {
				return true
			}
		}
	}
	return false
}

// ancestry lists category names from the category itself up to the root.
// Bounded to guard against parent cycles in dirty data.
func (r *Router) ancestry(id uuid.UUID) []string {
	var names []string
	cur := id
	for depth := 0; depth < 32; depth++ {
		name, ok := r.names[cur]
		if !ok {
			break
		}
		names = append(names, name)
		parent, ok := r.parents[cur]
		if !ok {
			break
		}
		cur = parent
	}
	return names
}

func (r *Router) findSheet(pattern *regexp.Regexp) (string, bool) {
	for _, sheet := range r.sheets {
		if pattern.MatchString(sheet) {
			return sheet, true
		}
	}
	return "", false
}
