package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dfactory/ticketbooth/internal/booking"
	"github.com/dfactory/ticketbooth/internal/documents"
	"github.com/dfactory/ticketbooth/internal/helpers"
	"github.com/dfactory/ticketbooth/internal/models"
	"github.com/dfactory/ticketbooth/internal/store"
	"github.com/dfactory/ticketbooth/internal/voting"
)

// GetEventDocument serves the public event detail sheet as a PDF download.
func GetEventDocument(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	st := store.New(db.(*gorm.DB))

	event, err := st.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondWithStoreError(c, err, "Event not found.")
		return
	}

	reserved, err := st.ReservedCount(c.Request.Context(), event.ID)
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to resolve event capacity.", err)
		return
	}
	remaining := event.Capacity - reserved
	if remaining < 0 {
		remaining = 0
	}

	now := time.Now()
	effective := voting.EffectiveStatus(event, now)

	pdf, err := documents.EventSheet(documents.EventSheetData{
		Name:         event.Name,
		Description:  event.Description,
		Location:     event.Location,
		Datetime:     event.EventDatetime,
		Capacity:     event.Capacity,
		Remaining:    remaining,
		TierName:     event.TierName(),
		TierPrice:    event.UnitPrice(),
		ShowPricing:  voting.ShowPricing(event, now),
		VotingStatus: effective,
		GeneratedAt:  now,
	})
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to generate document.", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", documents.EventSheetFilename(event.Name)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetInvoice serves a booking invoice as a PDF download. Only the owning
// user can retrieve it; a booking owned by someone else reads as a 404.
func GetInvoice(c *gin.Context) {
	bookingID, err := helpers.ParseBookingID(c.Param("bookingId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)
	st := store.New(gormDB)

	enrollment, err := st.GetUserEnrollment(c.Request.Context(), bookingID, userUUID)
	if err != nil {
		respondWithStoreError(c, err, "Booking not found.")
		return
	}

	var user models.User
	if err := gormDB.Where("id = ?", userUUID).First(&user).Error; err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to resolve user.", err)
		return
	}

	b := booking.FromEnrollment(enrollment)
	pdf, err := documents.Invoice(documents.InvoiceData{
		Booking:       b,
		CustomerName:  user.DisplayName(),
		CustomerEmail: user.Email,
		GeneratedAt:   time.Now(),
	})
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to generate invoice.", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", documents.InvoiceFilename(b.EventName)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
