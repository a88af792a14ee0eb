package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dfactory/ticketbooth/internal/helpers"
	"github.com/dfactory/ticketbooth/internal/store"
	"github.com/dfactory/ticketbooth/internal/voting"
)

// CastVote records the caller's vote on an undefined event. Voting twice
// is reported as a conflict, not a failure.
func CastVote(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
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

	vote, err := st.CastVote(c.Request.Context(), eventID, userUUID)
	if err != nil {
		respondWithStoreError(c, err, "Event not found.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vote recorded successfully.",
		"vote_id": vote.ID,
	})
}

// GetVotes returns the vote count for an event plus, for an authenticated
// caller, their own eligibility state.
func GetVotes(c *gin.Context) {
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

	count, err := st.CountVotes(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to count votes.", err)
		return
	}

	open, err := st.CanVote(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to check voting state.", err)
		return
	}

	response := gin.H{"votes_count": count, "voting_open": open}

	if userID, exists := c.Get("user_id"); exists {
		if userUUID, ok := userID.(uuid.UUID); ok {
			hasVoted, err := st.HasVoted(c.Request.Context(), eventID, userUUID)
			if err != nil {
				helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to check vote state.", err)
				return
			}
			response["eligibility"] = voting.Check(event, hasVoted, time.Now())
		}
	}

	c.JSON(http.StatusOK, response)
}
