package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"welp/internal/conversation"
	"welp/internal/domain/messages"
	"welp/internal/domain/reviews"
	"welp/internal/notifications"

	"github.com/go-chi/chi/v5"
)

type MessagePayload struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// conversationError maps engine errors onto HTTP responses. Storage
// errors fall through to 500.
func (app *application) conversationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, conversation.ErrNotAuthor),
		errors.Is(err, conversation.ErrNotAParticipant):
		app.forbiddenResponse(w, r, err)
	case errors.Is(err, conversation.ErrTurnViolation),
		errors.Is(err, conversation.ErrAlreadyClaimed):
		app.conflictResponse(w, r, err)
	case errors.Is(err, reviews.ErrNotFound),
		errors.Is(err, messages.ErrNotFound):
		app.notFoundResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

func (app *application) getConversationHandler(w http.ResponseWriter, r *http.Request) {
	review, err := app.reviewFromURL(w, r)
	if err != nil {
		return
	}

	user := getUserFromContext(r)
	actor := actorFor(user)

	preds, err := app.conversations.PredicatesFor(r.Context(), review, actor)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	profile := profileFromUser(user)
	if !conversation.CanViewFullContent(review, actor, profile, preds) {
		app.forbiddenResponse(w, r, errors.New("review content is locked"))
		return
	}

	thread, err := app.store.Messages.ListByReview(r.Context(), review.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"messages":        thread,
		"turn":            conversation.ComputeTurnState(thread, review, actor),
		"can_participate": conversation.CanParticipate(review, actor, profile, preds),
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) startConversationHandler(w http.ResponseWriter, r *http.Request) {
	app.postMessageHandler(w, r, true)
}

func (app *application) addMessageHandler(w http.ResponseWriter, r *http.Request) {
	app.postMessageHandler(w, r, false)
}

func (app *application) postMessageHandler(w http.ResponseWriter, r *http.Request, opening bool) {
	review, err := app.reviewFromURL(w, r)
	if err != nil {
		return
	}

	user := getUserFromContext(r)
	actor := actorFor(user)

	var payload MessagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	preds, err := app.conversations.PredicatesFor(r.Context(), review, actor)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// An anonymous author may read the thread but never post to it.
	if !conversation.CanParticipate(review, actor, profileFromUser(user), preds) {
		app.forbiddenResponse(w, r, errors.New("not allowed to participate in this conversation"))
		return
	}

	var message *messages.Message
	if opening {
		message, err = app.conversations.StartConversation(r.Context(), review.ID, actor, payload.Content)
	} else {
		message, err = app.conversations.AddMessage(r.Context(), review.ID, actor, payload.Content)
	}
	if err != nil {
		app.conversationError(w, r, err)
		return
	}

	app.notifyOtherSide(review, actor)

	if err := app.jsonResponse(w, http.StatusCreated, message); err != nil {
		app.internalServerError(w, r, err)
	}
}

// notifyOtherSide pushes a reply notification to whichever participant
// did not just post.
func (app *application) notifyOtherSide(review *reviews.Review, author conversation.Actor) {
	var target int64
	if author.ID == review.BusinessID {
		if review.CustomerID == nil {
			return
		}
		target = *review.CustomerID
	} else {
		target = review.BusinessID
	}

	notifications.CallAsync(func(ctx context.Context) error {
		return notifications.SendReviewNotification(ctx, app.push, app.store, target, notifications.ConversationReply, review.ID)
	})
}

func (app *application) editMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	messageID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid message ID"))
		return
	}

	var payload MessagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	message, err := app.conversations.EditMessage(r.Context(), messageID, actorFor(user), payload.Content)
	if err != nil {
		app.conversationError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, message); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	messageID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid message ID"))
		return
	}

	if err := app.conversations.DeleteMessage(r.Context(), messageID, actorFor(user)); err != nil {
		app.conversationError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
