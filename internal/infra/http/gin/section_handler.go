package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	sectionapp "tourline/internal/app/handlers/sections"
	domainsections "tourline/internal/domain/sections"
)

// SectionHandler wires the curated-section admin routes.
type SectionHandler struct {
	Sections *sectionapp.AdminService
}

func (h SectionHandler) List(c *gin.Context) {
	result, err := h.Sections.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SectionHandler) Create(c *gin.Context) {
	var in sectionapp.SectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Sections.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h SectionHandler) Update(c *gin.Context) {
	var in sectionapp.SectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Sections.Update(c.Request.Context(), domainsections.SectionID(c.Param("id")), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SectionHandler) Delete(c *gin.Context) {
	if err := h.Sections.Delete(c.Request.Context(), domainsections.SectionID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
