package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	tourapp "tourline/internal/app/handlers/tours"
	domaintours "tourline/internal/domain/tours"
)

// AdminTourHandler wires the back-office tour and price-block routes.
type AdminTourHandler struct {
	Admin *tourapp.AdminService
}

func (h AdminTourHandler) List(c *gin.Context) {
	result, err := h.Admin.ListTours(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminTourHandler) Get(c *gin.Context) {
	result, err := h.Admin.GetTour(c.Request.Context(), domaintours.TourID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminTourHandler) Create(c *gin.Context) {
	var in tourapp.TourInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Admin.CreateTour(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminTourHandler) Update(c *gin.Context) {
	var in tourapp.TourInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Admin.UpdateTour(c.Request.Context(), domaintours.TourID(c.Param("id")), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminTourHandler) Delete(c *gin.Context) {
	if err := h.Admin.DeleteTour(c.Request.Context(), domaintours.TourID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminTourHandler) Restore(c *gin.Context) {
	result, err := h.Admin.RestoreTour(c.Request.Context(), domaintours.TourID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminTourHandler) Purge(c *gin.Context) {
	if err := h.Admin.PurgeTour(c.Request.Context(), domaintours.TourID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminTourHandler) Recalculate(c *gin.Context) {
	result, err := h.Admin.Recalculate(c.Request.Context(), domaintours.TourID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminTourHandler) CreateDetail(c *gin.Context) {
	var in tourapp.DetailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Admin.CreateDetail(c.Request.Context(), domaintours.TourID(c.Param("id")), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminTourHandler) UpdateDetail(c *gin.Context) {
	var in tourapp.DetailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Admin.UpdateDetail(c.Request.Context(), domaintours.DetailID(c.Param("detailId")), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminTourHandler) DeleteDetail(c *gin.Context) {
	if err := h.Admin.DeleteDetail(c.Request.Context(), domaintours.DetailID(c.Param("detailId"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
