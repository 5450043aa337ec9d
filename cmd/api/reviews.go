package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"welp/internal/conversation"
	"welp/internal/domain/duplicates"
	"welp/internal/domain/reviews"
	"welp/internal/domain/users"
	"welp/internal/mailer"
	"welp/internal/notifications"
	"welp/internal/params"

	"github.com/go-chi/chi/v5"
)

type CreateReviewPayload struct {
	Rating          int     `json:"rating" validate:"required,min=1,max=5"`
	Content         string  `json:"content" validate:"required,max=2000"`
	IsAnonymous     bool    `json:"is_anonymous"`
	CustomerName    *string `json:"customer_name,omitempty" validate:"omitempty,max=100"`
	CustomerPhone   *string `json:"customer_phone,omitempty" validate:"omitempty,usphone"`
	CustomerAddress *string `json:"customer_address,omitempty" validate:"omitempty,max=255"`
}

// ReviewWithClaimCode is returned only to the authoring business, which
// shares the code with the customer out-of-band.
type ReviewWithClaimCode struct {
	*reviews.Review
	ClaimCode string `json:"claim_code"`
}

func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user.AccountType != users.AccountBusiness {
		app.forbiddenResponse(w, r, errors.New("only business accounts write reviews"))
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review := &reviews.Review{
		BusinessID:      user.ID,
		Rating:          payload.Rating,
		Content:         payload.Content,
		IsAnonymous:     payload.IsAnonymous,
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		CustomerAddress: payload.CustomerAddress,
	}

	ctx := r.Context()

	if err := app.store.Reviews.Create(ctx, review); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	code, err := app.claimCodes.Encode(review.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.store.Reviews.SetClaimCode(ctx, review.ID, code); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	review.ClaimCode = code

	// Look for customer accounts matching the recorded contact details
	// and let them know a review about them exists.
	app.notifyMatchingCustomers(review, code)

	if err := app.jsonResponse(w, http.StatusCreated, ReviewWithClaimCode{Review: review, ClaimCode: code}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) notifyMatchingCustomers(review *reviews.Review, code string) {
	input := duplicates.Profile{}
	if review.CustomerName != nil {
		input.Name = *review.CustomerName
	}
	if review.CustomerPhone != nil {
		input.Phone = *review.CustomerPhone
	}
	if review.CustomerAddress != nil {
		input.Address = *review.CustomerAddress
	}

	claimURL := fmt.Sprintf("%s/claim?code=%s", app.config.frontendURL, code)

	notifications.CallAsync(func(ctx context.Context) error {
		report, err := app.store.Duplicates.CheckProfile(ctx, input)
		if err != nil {
			return err
		}
		for _, match := range report.Matches {
			if !match.ExactContact {
				continue
			}
			candidate, err := app.store.Users.GetByID(ctx, match.UserID)
			if err != nil {
				app.logger.Errorw("error loading matched customer", "error", err)
				continue
			}
			if candidate.AccountType != users.AccountCustomer {
				continue
			}

			vars := struct {
				Username  string
				ClaimCode string
				ClaimURL  string
			}{
				Username:  candidate.Name,
				ClaimCode: code,
				ClaimURL:  claimURL,
			}
			if _, err := app.mailer.Send(mailer.ReviewNotificationTemplate, candidate.Name, candidate.Email, vars); err != nil {
				app.logger.Errorw("error sending review notification email", "error", err)
			}

			if err := notifications.SendReviewNotification(ctx, app.push, app.store, candidate.ID, notifications.ReviewPosted, review.ID); err != nil {
				app.logger.Warnw("push notification skipped", "user_id", candidate.ID, "error", err)
			}
		}
		return nil
	})
}

func (app *application) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	review, err := app.reviewFromURL(w, r)
	if err != nil {
		return
	}

	user := getUserFromContext(r)

	canView := false
	if user != nil {
		actor := actorFor(user)
		preds, err := app.conversations.PredicatesFor(r.Context(), review, actor)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		canView = conversation.CanViewFullContent(review, actor, profileFromUser(user), preds)
	}

	view := redactReview(review, user, canView)
	view["full_content"] = canView

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

// redactReview builds the response shape for one review. Locked reviews
// keep rating and a content snippet only; anonymous reviews hide the
// business identity from everyone except the author.
func redactReview(review *reviews.Review, requester *users.User, canView bool) map[string]interface{} {
	view := map[string]interface{}{
		"id":           review.ID,
		"rating":       review.Rating,
		"is_anonymous": review.IsAnonymous,
		"created_at":   review.CreatedAt,
		"updated_at":   review.UpdatedAt,
	}

	isAuthor := requester != nil && requester.ID == review.BusinessID
	if !review.IsAnonymous || isAuthor {
		view["business_id"] = review.BusinessID
		view["business_name"] = review.BusinessName
	}

	if canView || isAuthor {
		view["content"] = review.Content
		view["customer_id"] = review.CustomerID
		view["customer_name"] = review.CustomerName
		view["customer_phone"] = review.CustomerPhone
		view["customer_address"] = review.CustomerAddress
		return view
	}

	view["content_snippet"] = snippetOf(review.Content)
	return view
}

// snippetOf truncates on a rune boundary so multi-byte characters are
// never split.
func snippetOf(content string) string {
	const max = 80
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}

func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	p := params.ParsePagination(r.URL.Query())

	var (
		list  []reviews.Review
		total int
		err   error
	)
	if user.AccountType == users.AccountBusiness {
		list, total, err = app.store.Reviews.ListByBusiness(r.Context(), user.ID, p.Limit, p.Offset)
	} else {
		list, total, err = app.store.Reviews.ListByCustomer(r.Context(), user.ID, p.Limit, p.Offset)
	}
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]interface{}{
		"reviews":    list,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required,max=2000"`
}

func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	var payload UpdateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.store.Reviews.Update(r.Context(), reviewID, user.ID, payload.Rating, payload.Content)
	if err != nil {
		switch err {
		case reviews.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	err = app.store.Reviews.Delete(r.Context(), reviewID, user.ID)
	if err != nil {
		switch err {
		case reviews.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) getReputationHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid customer ID"))
		return
	}

	stats, err := app.store.Reviews.GetReputationStats(r.Context(), customerID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, stats); err != nil {
		app.internalServerError(w, r, err)
	}
}

// reviewFromURL parses {reviewID} and loads the review, writing the
// error response itself when something is wrong.
func (app *application) reviewFromURL(w http.ResponseWriter, r *http.Request) (*reviews.Review, error) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		err = errors.New("invalid review ID")
		app.badRequestResponse(w, r, err)
		return nil, err
	}

	review, err := app.store.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		switch err {
		case reviews.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return nil, err
	}
	return review, nil
}

func actorFor(user *users.User) conversation.Actor {
	return conversation.Actor{ID: user.ID, Type: user.AccountType}
}

func profileFromUser(user *users.User) conversation.Profile {
	if user == nil {
		return conversation.Profile{}
	}
	p := conversation.Profile{Address: user.Address}
	if user.Name != "" {
		p.Name = &user.Name
	}
	if user.Phone != "" {
		p.Phone = &user.Phone
	}
	return p
}
