package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	taxonomyapp "tourline/internal/app/handlers/taxonomy"
	domaintaxonomy "tourline/internal/domain/taxonomy"
)

// TaxonomyHandler serves the lookup entities. The kind is a path
// segment so one handler covers all four collections.
type TaxonomyHandler struct {
	Taxonomy *taxonomyapp.Service
}

func (h TaxonomyHandler) kind(c *gin.Context) (domaintaxonomy.Kind, bool) {
	kind, err := domaintaxonomy.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return kind, true
}

func (h TaxonomyHandler) List(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	includeDeleted := c.Query("includeDeleted") == "true"
	result, err := h.Taxonomy.List(c.Request.Context(), kind, includeDeleted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h TaxonomyHandler) Create(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var in taxonomyapp.EntityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Taxonomy.Create(c.Request.Context(), kind, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h TaxonomyHandler) Update(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var in taxonomyapp.EntityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Taxonomy.Update(c.Request.Context(), kind, domaintaxonomy.EntityID(c.Param("id")), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h TaxonomyHandler) Delete(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	if err := h.Taxonomy.Delete(c.Request.Context(), kind, domaintaxonomy.EntityID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
