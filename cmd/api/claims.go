package main

import (
	"context"
	"errors"
	"net/http"

	"welp/internal/claimcodes"
	"welp/internal/conversation"
	"welp/internal/domain/claims"
	"welp/internal/domain/users"
	"welp/internal/notifications"
)

// claimReviewHandler claims a review whose recorded contact details match
// the requesting customer's profile.
func (app *application) claimReviewHandler(w http.ResponseWriter, r *http.Request) {
	review, err := app.reviewFromURL(w, r)
	if err != nil {
		return
	}

	user := getUserFromContext(r)
	if user.AccountType != users.AccountCustomer {
		app.forbiddenResponse(w, r, errors.New("only customer accounts claim reviews"))
		return
	}

	if !conversation.MatchesProfile(review, profileFromUser(user)) {
		app.forbiddenResponse(w, r, errors.New("review details do not match your profile"))
		return
	}

	app.finishClaim(w, r, review.ID, user)
}

type ClaimByCodePayload struct {
	Code string `json:"code" validate:"required"`
}

// claimReviewByCodeHandler claims via the code the business shared
// out-of-band. No profile match is required; possession of the code is
// the proof.
func (app *application) claimReviewByCodeHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user.AccountType != users.AccountCustomer {
		app.forbiddenResponse(w, r, errors.New("only customer accounts claim reviews"))
		return
	}

	var payload ClaimByCodePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.claimCodes.Decode(payload.Code); err != nil {
		switch err {
		case claimcodes.ErrInvalidCode:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Codes are random-looking but the review row is the source of truth.
	review, err := app.store.Reviews.GetByClaimCode(r.Context(), payload.Code)
	if err != nil {
		app.conversationError(w, r, err)
		return
	}

	app.finishClaim(w, r, review.ID, user)
}

func (app *application) finishClaim(w http.ResponseWriter, r *http.Request, reviewID int64, user *users.User) {
	claim, err := app.conversations.ClaimReview(r.Context(), reviewID, actorFor(user))
	if err != nil {
		app.conversationError(w, r, err)
		return
	}

	app.notifyBusinessOfClaim(reviewID)

	if err := app.jsonResponse(w, http.StatusCreated, claim); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) notifyBusinessOfClaim(reviewID int64) {
	notifications.CallAsync(func(ctx context.Context) error {
		review, err := app.store.Reviews.GetByID(ctx, reviewID)
		if err != nil {
			return err
		}
		return notifications.SendReviewNotification(ctx, app.push, app.store, review.BusinessID, notifications.ReviewClaimed, reviewID)
	})
}

// listMyClaimsHandler returns every review association the requesting
// customer holds, claimed and purchased alike.
func (app *application) listMyClaimsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user.AccountType != users.AccountCustomer {
		app.forbiddenResponse(w, r, errors.New("only customer accounts hold claims"))
		return
	}

	list, err := app.store.Claims.ListByCustomer(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// unlockReviewHandler records a one-time purchased unlock for this
// customer. Payment capture happens upstream; by the time this endpoint
// is hit the purchase has settled.
func (app *application) unlockReviewHandler(w http.ResponseWriter, r *http.Request) {
	review, err := app.reviewFromURL(w, r)
	if err != nil {
		return
	}

	user := getUserFromContext(r)
	if user.AccountType != users.AccountCustomer {
		app.forbiddenResponse(w, r, errors.New("only customer accounts unlock reviews"))
		return
	}

	ctx := r.Context()

	if err := app.store.Access.CreateUnlock(ctx, user.ID, review.ID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// The unlock doubles as a durable association with the review.
	claim := &claims.Claim{
		CustomerID:      user.ID,
		ReviewID:        review.ID,
		AssociationType: claims.AssociationPurchased,
	}
	if err := app.store.Claims.Create(ctx, claim); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, claim); err != nil {
		app.internalServerError(w, r, err)
	}
}
