package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dfactory/ticketbooth/internal/helpers"
	"github.com/dfactory/ticketbooth/internal/models"
	"github.com/dfactory/ticketbooth/internal/store"
	"github.com/dfactory/ticketbooth/internal/voting"
)

type EventRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Location      string           `json:"location"`
	PosterURL     string           `json:"poster_url"`
	Type          string           `json:"type" binding:"omitempty,oneof=defined undefined"`
	Capacity      int              `json:"capacity" binding:"min=0"`
	EventDatetime time.Time        `json:"event_datetime" binding:"required"`
	TicketPrice   *decimal.Decimal `json:"ticket_price"`
	VotingStart   *time.Time       `json:"voting_start"`
	VotingEnd     *time.Time       `json:"voting_end"`
	VotingStatus  *string          `json:"voting_status" binding:"omitempty,oneof=open closed"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=published closed"`
}

// EventView is the public projection of an event: remaining capacity is
// advisory display data, and tier pricing on undefined events stays hidden
// until voting closes.
type EventView struct {
	ID            string           `json:"id"`
	Type          string           `json:"type"`
	Status        string           `json:"status"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Location      string           `json:"location,omitempty"`
	PosterURL     string           `json:"poster_url,omitempty"`
	Capacity      int              `json:"capacity"`
	Remaining     int              `json:"remaining"`
	EventDatetime time.Time        `json:"event_datetime"`
	TierName      string           `json:"tier_name,omitempty"`
	TicketPrice   *decimal.Decimal `json:"ticket_price,omitempty"`
	VotingStart   *time.Time       `json:"voting_start,omitempty"`
	VotingEnd     *time.Time       `json:"voting_end,omitempty"`
	VotingStatus  *string          `json:"voting_status,omitempty"`
	VotesCount    int64            `json:"votes_count,omitempty"`
}

func buildEventView(c *gin.Context, st *store.Store, event *models.Event) (EventView, error) {
	reserved, err := st.ReservedCount(c.Request.Context(), event.ID)
	if err != nil {
		return EventView{}, err
	}
	remaining := event.Capacity - reserved
	if remaining < 0 {
		remaining = 0
	}

	now := time.Now()
	effective := voting.EffectiveStatus(event, now)

	view := EventView{
		ID:            event.ID.String(),
		Type:          event.Type,
		Status:        event.Status,
		Name:          event.Name,
		Description:   event.Description,
		Location:      event.Location,
		PosterURL:     event.PosterURL,
		Capacity:      event.Capacity,
		Remaining:     remaining,
		EventDatetime: event.EventDatetime,
		VotingStart:   event.VotingStart,
		VotingEnd:     event.VotingEnd,
		VotingStatus:  effective,
	}

	if voting.ShowPricing(event, now) {
		view.TierName = event.TierName()
		price := event.UnitPrice()
		view.TicketPrice = &price
	}

	if event.Type == models.EventTypeUndefined {
		votes, err := st.CountVotes(c.Request.Context(), event.ID)
		if err != nil {
			return EventView{}, err
		}
		view.VotesCount = votes
	}

	return view, nil
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	st := store.New(db.(*gorm.DB))

	events, err := st.ListPublishedEvents(c.Request.Context())
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to list events.", err)
		return
	}

	views := make([]EventView, 0, len(events))
	for i := range events {
		view, err := buildEventView(c, st, &events[i])
		if err != nil {
			helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to list events.", err)
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"events": views})
}

func GetEvent(c *gin.Context) {
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

	view, err := buildEventView(c, st, event)
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to load event.", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetAvailability reports advisory remaining capacity and whether a given
// quantity would currently fit. The authoritative check still happens
// inside checkout.
func GetAvailability(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	qty := 1
	if qtyParam := c.Query("quantity"); qtyParam != "" {
		parsed, err := helpers.ParsePositiveInt(qtyParam)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid quantity.")
			return
		}
		qty = parsed
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
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to check availability.", err)
		return
	}

	remaining := event.Capacity - reserved
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"remaining":  remaining,
		"can_enroll": qty <= remaining,
	})
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	if req.TicketPrice != nil && req.TicketPrice.IsNegative() {
		helpers.RespondWithError(c, http.StatusBadRequest, "Ticket price must not be negative.")
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

	eventType := req.Type
	if eventType == "" {
		eventType = models.EventTypeDefined
	}

	event := models.Event{
		Type:          eventType,
		Status:        models.EventStatusDraft,
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		PosterURL:     req.PosterURL,
		Capacity:      req.Capacity,
		EventDatetime: req.EventDatetime,
		TicketPrice:   req.TicketPrice,
		VotingStart:   req.VotingStart,
		VotingEnd:     req.VotingEnd,
		VotingStatus:  req.VotingStatus,
		CreatedByID:   userUUID,
	}

	if err := st.CreateEvent(c.Request.Context(), &event); err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to create event.", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func UpdateEvent(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	if req.TicketPrice != nil && req.TicketPrice.IsNegative() {
		helpers.RespondWithError(c, http.StatusBadRequest, "Ticket price must not be negative.")
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

	event.Name = req.Name
	event.Description = req.Description
	event.Location = req.Location
	event.PosterURL = req.PosterURL
	event.Capacity = req.Capacity
	event.EventDatetime = req.EventDatetime
	event.TicketPrice = req.TicketPrice
	event.VotingStart = req.VotingStart
	event.VotingEnd = req.VotingEnd
	event.VotingStatus = req.VotingStatus
	if req.Type != "" {
		event.Type = req.Type
	}

	if err := st.UpdateEvent(c.Request.Context(), event); err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to update event.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully."})
}

func UpdateEventStatus(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	st := store.New(db.(*gorm.DB))

	event, err := st.UpdateEventStatus(c.Request.Context(), eventID, req.Status)
	if err != nil {
		respondWithStoreError(c, err, "Event not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event status updated successfully.",
		"status":  event.Status,
	})
}

func ListAllEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	st := store.New(db.(*gorm.DB))

	events, err := st.ListAllEvents(c.Request.Context())
	if err != nil {
		helpers.RespondWithInternalError(c, http.StatusInternalServerError, "Failed to list events.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
