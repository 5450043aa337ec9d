package notifications

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"welp/internal/domain/storage"

	"github.com/9ssi7/exponent"
)

type ReviewEvent string

const (
	ReviewPosted      ReviewEvent = "POSTED"
	ReviewClaimed     ReviewEvent = "CLAIMED"
	ConversationReply ReviewEvent = "REPLY"
)

// SendReviewNotification pushes a review lifecycle event to every device
// the target user has registered.
func SendReviewNotification(ctx context.Context, push PushSender, store *storage.Container, userID int64, event ReviewEvent, reviewID int64) error {
	tokensMap, err := store.PushTokens.GetTokensByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	tokens := dedupe(tokensMap[userID])
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	var title, body string
	switch event {
	case ReviewPosted:
		title = "A business reviewed you"
		body = "A new review about you was posted. Claim it to respond."
	case ReviewClaimed:
		title = "Your review was claimed"
		body = fmt.Sprintf("The customer has claimed review %d and may respond.", reviewID)
	case ConversationReply:
		title = "New reply"
		body = "The other side replied in your review conversation."
	default:
		title = "Review update"
		body = fmt.Sprintf("Review %d has an update.", reviewID)
	}

	screen := fmt.Sprintf("reviews/%s", strconv.FormatInt(reviewID, 10))
	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msg := &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":      "review",
				"event":     string(event),
				"review_id": strconv.FormatInt(reviewID, 10),
				"screen":    screen,
			},
		}
		msgs = append(msgs, msg)
	}

	_, err = push.Publish(ctx, msgs)
	if err != nil {
		return err
	}
	return nil
}
