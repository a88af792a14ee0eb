package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dfactory/ticketbooth/internal/booking"
	"github.com/dfactory/ticketbooth/internal/helpers"
	"github.com/dfactory/ticketbooth/internal/store"
)

type EnrollmentRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type PaymentUpdateRequest struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// CreateEnrollment is the checkout action: the capacity check and the
// booking insert run as one atomic store call, so a full event can never
// be oversold no matter how requests race.
func CreateEnrollment(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
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
	st := store.New(db.(*gorm.DB))

	enrollment, err := st.Enroll(c.Request.Context(), eventID, userUUID, req.Quantity)
	if err != nil {
		respondWithStoreError(c, err, "Event not found.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully.",
		"booking": booking.FromEnrollment(enrollment),
	})
}

// ListMyEnrollments returns the caller's bookings, newest first.
func ListMyEnrollments(c *gin.Context) {
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
	st := store.New(db.(*gorm.DB))

	enrollments, err := st.ListUserEnrollments(c.Request.Context(), userUUID)
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to list bookings.", err)
		return
	}

	bookings := make([]booking.Booking, 0, len(enrollments))
	for i := range enrollments {
		bookings = append(bookings, booking.FromEnrollment(&enrollments[i]))
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListEventEnrollments returns every booking for an event (admin).
func ListEventEnrollments(c *gin.Context) {
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

	if _, err := st.GetEvent(c.Request.Context(), eventID); err != nil {
		respondWithStoreError(c, err, "Event not found.")
		return
	}

	enrollments, err := st.ListEventEnrollments(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to list enrollments.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

// MarkEnrollmentPaid records a payment against a booking (admin). The
// amount may be partial; the invoice then shows the remainder as due.
func MarkEnrollmentPaid(c *gin.Context) {
	bookingID, err := helpers.ParseBookingID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	var req PaymentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	if req.AmountPaid.IsNegative() {
		helpers.RespondWithError(c, http.StatusBadRequest, "Amount paid must not be negative.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	st := store.New(db.(*gorm.DB))

	enrollment, err := st.MarkPaid(c.Request.Context(), bookingID, req.AmountPaid)
	if err != nil {
		respondWithStoreError(c, err, "Booking not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking marked as paid.",
		"booking": booking.FromEnrollment(enrollment),
	})
}

// RefundEnrollment cancels a booking and releases its seats (admin).
func RefundEnrollment(c *gin.Context) {
	bookingID, err := helpers.ParseBookingID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	st := store.New(db.(*gorm.DB))

	enrollment, err := st.Refund(c.Request.Context(), bookingID)
	if err != nil {
		respondWithStoreError(c, err, "Booking not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking refunded.",
		"booking": booking.FromEnrollment(enrollment),
	})
}
