package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/dfactory/ticketbooth/internal/helpers"
	"github.com/dfactory/ticketbooth/internal/store"
)

// GetTicketQR renders the scannable PNG for one of the caller's tickets.
// The image encodes the persisted ticket code, so it is stable across
// downloads.
func GetTicketQR(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Ticket code is required.")
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

	ticket, err := st.GetTicketForUser(c.Request.Context(), code, userUUID)
	if err != nil {
		respondWithStoreError(c, err, "Ticket not found.")
		return
	}

	qrImage, err := qrcode.Encode(ticket.Code, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to generate QR code.", err)
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}
