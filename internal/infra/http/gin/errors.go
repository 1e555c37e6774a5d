package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	orderapp "tourline/internal/app/handlers/orders"
	domainorders "tourline/internal/domain/orders"
	domainsections "tourline/internal/domain/sections"
	domaintaxonomy "tourline/internal/domain/taxonomy"
	domaintours "tourline/internal/domain/tours"
)

// respondError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with the message withheld from the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domaintours.ErrNotFound),
		errors.Is(err, domaintours.ErrDetailNotFound),
		errors.Is(err, domainorders.ErrNotFound),
		errors.Is(err, domainsections.ErrNotFound),
		errors.Is(err, domaintaxonomy.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domaintours.ErrTitleRequired),
		errors.Is(err, domaintours.ErrCodeRequired),
		errors.Is(err, domaintours.ErrDatesOutOfOrder),
		errors.Is(err, domainorders.ErrNoAdults),
		errors.Is(err, domainorders.ErrContactMissing),
		errors.Is(err, domainsections.ErrTitleRequired),
		errors.Is(err, domaintaxonomy.ErrTitleRequired),
		errors.Is(err, domaintaxonomy.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domaintours.ErrOutOfStock),
		errors.Is(err, domaintours.ErrTourDeleted),
		errors.Is(err, domainorders.ErrInvalidState),
		errors.Is(err, orderapp.ErrTourUnavailable),
		errors.Is(err, orderapp.ErrDepartureGone),
		errors.Is(err, orderapp.ErrDetailMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, orderapp.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
