package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feed-service/internal/refcatalog"
)

// CatalogHandler exposes reference catalog administration
type CatalogHandler struct {
	catalogs *refcatalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogs *refcatalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs}
}

// Reload re-reads both reference catalog documents
func (h *CatalogHandler) Reload(c *gin.Context) {
	if err := h.catalogs.Reload(); err != nil {
		// a partially loaded catalog set is still usable; report, keep serving
		c.JSON(http.StatusOK, gin.H{
			"status":  "degraded",
			"warning": err.Error(),
		})
		return
	}

	phones, laptops := 0, 0
	if cat := h.catalogs.Phones(); cat != nil {
		phones = len(cat.Entries)
	}
	if cat := h.catalogs.Laptops(); cat != nil {
		laptops = len(cat.Entries)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "reloaded",
		"phones":  phones,
		"laptops": laptops,
	})
}
