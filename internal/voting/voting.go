// Package voting decides whether a user may cast a vote on an undefined
// event. The rules here are pure time/state checks; the store enforces the
// one-vote-per-user constraint at insert time.
package voting

import (
	"time"

	"github.com/dfactory/ticketbooth/internal/models"
)

// Eligibility is the per-(event,user) voting state.
type Eligibility string

const (
	// NotEligible: the event is not votable right now (wrong type, not
	// published, or outside its voting window).
	NotEligible Eligibility = "not_eligible"
	// Eligible: the user may cast a vote.
	Eligible Eligibility = "eligible"
	// AlreadyVoted: a vote by this user already exists.
	AlreadyVoted Eligibility = "already_voted"
)

// WindowOpen reports whether the event accepts votes at the given time.
// An explicit VotingStatus overrides the time window; when the status is
// unset the [VotingStart, VotingEnd] window decides.
func WindowOpen(event *models.Event, now time.Time) bool {
	if event.Type != models.EventTypeUndefined {
		return false
	}
	if event.Status != models.EventStatusPublished {
		return false
	}
	if event.VotingStatus != nil {
		return *event.VotingStatus == models.VotingOpen
	}
	if event.VotingStart == nil || event.VotingEnd == nil {
		return false
	}
	return !now.Before(*event.VotingStart) && !now.After(*event.VotingEnd)
}

// Check resolves the full eligibility state for a user, given whether they
// have voted before.
func Check(event *models.Event, hasVoted bool, now time.Time) Eligibility {
	if hasVoted {
		return AlreadyVoted
	}
	if WindowOpen(event, now) {
		return Eligible
	}
	return NotEligible
}

// ShowPricing reports whether ticket prices may be displayed. Defined
// events always show pricing; undefined events only once their voting
// phase has effectively closed, whether by explicit status or by an
// elapsed window.
func ShowPricing(event *models.Event, now time.Time) bool {
	if event.Type != models.EventTypeUndefined {
		return true
	}
	status := EffectiveStatus(event, now)
	return status != nil && *status == models.VotingClosed
}

// EffectiveStatus derives the display voting status for an event: the
// explicit status when set, otherwise computed from the window. Returns
// nil for defined events, which have no voting phase.
func EffectiveStatus(event *models.Event, now time.Time) *string {
	if event.Type != models.EventTypeUndefined {
		return nil
	}
	if event.VotingStatus != nil {
		return event.VotingStatus
	}
	if event.VotingStart == nil || event.VotingEnd == nil {
		return nil
	}
	status := models.VotingClosed
	if !now.Before(*event.VotingStart) && !now.After(*event.VotingEnd) {
		status = models.VotingOpen
	}
	return &status
}
