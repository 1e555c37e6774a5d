package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	homeapp "tourline/internal/app/handlers/home"
	tourapp "tourline/internal/app/handlers/tours"
	domainsections "tourline/internal/domain/sections"
	domaintours "tourline/internal/domain/tours"
)

// CatalogHandler wires the public tour surfaces to HTTP.
type CatalogHandler struct {
	Catalog *tourapp.CatalogService
	Home    *homeapp.Service
}

// List responds with a filtered collection of tours.
func (h CatalogHandler) List(c *gin.Context) {
	result, err := h.Catalog.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get responds with one tour and its departures.
func (h CatalogHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tour id is required"})
		return
	}
	result, err := h.Catalog.Get(c.Request.Context(), domaintours.TourID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HomePage renders the curated landing sections.
func (h CatalogHandler) HomePage(c *gin.Context) {
	result, err := h.Home.Home(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SectionTours serves one curated section as a feed.
func (h CatalogHandler) SectionTours(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "section id is required"})
		return
	}
	result, err := h.Home.SectionTours(c.Request.Context(), domainsections.SectionID(id), c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
