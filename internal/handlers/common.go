package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfactory/ticketbooth/internal/helpers"
	"github.com/dfactory/ticketbooth/internal/store"
)

// respondWithStoreError maps store outcomes onto HTTP statuses. Capacity
// and duplicate-vote rejections are expected outcomes and carry their own
// user-facing message; only unknown errors fall through to a 500.
func respondWithStoreError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, store.ErrCapacityExceeded):
		helpers.RespondWithError(c, http.StatusConflict, "Not enough tickets remaining. Try a smaller quantity.")
	case errors.Is(err, store.ErrAlreadyVoted):
		helpers.RespondWithError(c, http.StatusConflict, "You have already voted for this event.")
	case errors.Is(err, store.ErrVotingClosed):
		helpers.RespondWithError(c, http.StatusConflict, "Voting is not open for this event.")
	case errors.Is(err, store.ErrNotVotable):
		helpers.RespondWithError(c, http.StatusConflict, "This event is not open to voting.")
	case errors.Is(err, store.ErrInvalidTransition):
		helpers.RespondWithError(c, http.StatusConflict, "Invalid status transition.")
	default:
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Something went wrong. Please try again.", err)
	}
}
