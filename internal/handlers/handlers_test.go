package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dfactory/ticketbooth/config"
	"github.com/dfactory/ticketbooth/internal/middleware"
	"github.com/dfactory/ticketbooth/internal/models"
	"github.com/dfactory/ticketbooth/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))

	r.GET("/v1/events/:id/document", GetEventDocument)
	r.GET("/v1/events/:id/availability", GetAvailability)
	r.GET("/v1/events/:id/votes", middleware.OptionalJWTMiddleware(), GetVotes)

	protected := r.Group("/v1", middleware.JWTAuthMiddleware())
	protected.POST("/events/:id/enrollments", CreateEnrollment)
	protected.POST("/events/:id/votes", CastVote)
	protected.GET("/invoices/:bookingId", GetInvoice)
	protected.GET("/tickets/:code/qr", GetTicketQR)

	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "x", FirstName: "Test", LastName: "User"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedEvent(t *testing.T, db *gorm.DB, capacity int, price string) *models.Event {
	t.Helper()
	p := decimal.RequireFromString(price)
	event := &models.Event{
		Type:          models.EventTypeDefined,
		Status:        models.EventStatusPublished,
		Name:          "Summer Concert",
		Location:      "City Arena",
		Capacity:      capacity,
		EventDatetime: time.Now().Add(30 * 24 * time.Hour),
		TicketPrice:   &p,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func bearerToken(t *testing.T, user *models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    models.RoleUser,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEventDocumentPublic(t *testing.T) {
	r, db := newTestRouter(t)
	event := seedEvent(t, db, 100, "25.00")

	w := doRequest(r, http.MethodGet, "/v1/events/"+event.ID.String()+"/document", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment`)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Event-summer-concert.pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestEventDocumentNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/v1/events/7b4717b2-10ae-4a7e-b347-123b3ec23a44/document", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/events/not-a-uuid/document", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/v1/invoices/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/invoices/1", "Bearer bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvoiceOwnership(t *testing.T) {
	r, db := newTestRouter(t)
	st := store.New(db)
	event := seedEvent(t, db, 100, "25.00")
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	enrollment, err := st.Enroll(context.Background(), event.ID, alice.ID, 3)
	require.NoError(t, err)
	path := fmt.Sprintf("/v1/invoices/%d", enrollment.ID)

	// Owner downloads their invoice.
	w := doRequest(r, http.MethodGet, path, bearerToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Invoice-summer-concert.pdf")

	// Someone else's booking reads as absent.
	w = doRequest(r, http.MethodGet, path, bearerToken(t, bob), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/invoices/9999", bearerToken(t, alice), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/invoices/zero", bearerToken(t, alice), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutCapacityConflict(t *testing.T) {
	r, db := newTestRouter(t)
	event := seedEvent(t, db, 10, "25.00")
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	path := "/v1/events/" + event.ID.String() + "/enrollments"

	w := doRequest(r, http.MethodPost, path, bearerToken(t, alice), gin.H{"quantity": 10})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Booking struct {
			ID      uint `json:"booking_id"`
			Tickets []struct {
				Code string `json:"ticket_code"`
			} `json:"tickets"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.Booking.Tickets, 10)

	w = doRequest(r, http.MethodPost, path, bearerToken(t, bob), gin.H{"quantity": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, http.MethodPost, path, bearerToken(t, bob), gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityAdvisory(t *testing.T) {
	r, db := newTestRouter(t)
	event := seedEvent(t, db, 10, "25.00")
	alice := seedUser(t, db, "alice@example.com")

	st := store.New(db)
	_, err := st.Enroll(context.Background(), event.ID, alice.ID, 7)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/v1/events/"+event.ID.String()+"/availability?quantity=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Remaining int  `json:"remaining"`
		CanEnroll bool `json:"can_enroll"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Remaining)
	assert.True(t, resp.CanEnroll)

	w = doRequest(r, http.MethodGet, "/v1/events/"+event.ID.String()+"/availability?quantity=4", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.CanEnroll)
}

func TestVoteConflictOnSecondVote(t *testing.T) {
	r, db := newTestRouter(t)
	alice := seedUser(t, db, "alice@example.com")

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	event := &models.Event{
		Type:          models.EventTypeUndefined,
		Status:        models.EventStatusPublished,
		Name:          "Mystery Night",
		Capacity:      50,
		EventDatetime: end.Add(30 * 24 * time.Hour),
		VotingStart:   &start,
		VotingEnd:     &end,
	}
	require.NoError(t, db.Create(event).Error)
	path := "/v1/events/" + event.ID.String() + "/votes"

	w := doRequest(r, http.MethodPost, path, bearerToken(t, alice), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodPost, path, bearerToken(t, alice), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetVotesReportsState(t *testing.T) {
	r, db := newTestRouter(t)
	alice := seedUser(t, db, "alice@example.com")

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	event := &models.Event{
		Type:          models.EventTypeUndefined,
		Status:        models.EventStatusPublished,
		Name:          "Mystery Night",
		Capacity:      50,
		EventDatetime: end.Add(30 * 24 * time.Hour),
		VotingStart:   &start,
		VotingEnd:     &end,
	}
	require.NoError(t, db.Create(event).Error)
	path := "/v1/events/" + event.ID.String() + "/votes"

	var resp struct {
		VotesCount  int64  `json:"votes_count"`
		VotingOpen  bool   `json:"voting_open"`
		Eligibility string `json:"eligibility"`
	}

	// Anonymous callers see the count and window state, no eligibility.
	w := doRequest(r, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 0, resp.VotesCount)
	assert.True(t, resp.VotingOpen)
	assert.Empty(t, resp.Eligibility)

	w = doRequest(r, http.MethodGet, path, bearerToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "eligible", resp.Eligibility)

	w = doRequest(r, http.MethodPost, path, bearerToken(t, alice), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodGet, path, bearerToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.VotesCount)
	assert.Equal(t, "already_voted", resp.Eligibility)
}

func TestTicketQROwnership(t *testing.T) {
	r, db := newTestRouter(t)
	st := store.New(db)
	event := seedEvent(t, db, 10, "25.00")
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	enrollment, err := st.Enroll(context.Background(), event.ID, alice.ID, 1)
	require.NoError(t, err)
	path := "/v1/tickets/" + enrollment.Tickets[0].Code + "/qr"

	w := doRequest(r, http.MethodGet, path, bearerToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = doRequest(r, http.MethodGet, path, bearerToken(t, bob), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
