// Package conversation decides who may see a review, who may take part in
// its reply thread, whose turn it is to post, and whether a customer may
// claim an unattributed review. Every decision is a pure function of the
// review, the ordered message history, the requesting actor, and the
// access predicates the caller supplies; the engine holds no state of its
// own.
package conversation

import (
	"strings"

	"welp/internal/domain/messages"
	"welp/internal/domain/reviews"
	"welp/internal/domain/users"
)

// CanViewFullContent reports whether the requester may read the review's
// full content. Customers need an access grant AND either a profile match
// or a prior claim; everyone else needs only the grant.
func CanViewFullContent(review *reviews.Review, requester Actor, profile Profile, preds AccessPredicates) bool {
	hasAccess := preds.IsSubscribed || preds.IsReviewUnlocked || preds.IsReviewAuthor
	if requester.Type != users.AccountCustomer {
		return hasAccess
	}
	if preds.HasClaimed {
		return true
	}
	return hasAccess && MatchesProfile(review, profile)
}

// CanParticipate applies the same gate as CanViewFullContent with one
// extra rule: the author of an anonymous review may never join its
// conversation, or replying would un-anonymize them. Non-authors are
// unaffected by the anonymity flag.
func CanParticipate(review *reviews.Review, requester Actor, profile Profile, preds AccessPredicates) bool {
	if review.IsAnonymous && preds.IsReviewAuthor {
		return false
	}
	return CanViewFullContent(review, requester, profile, preds)
}

func isParticipant(review *reviews.Review, requester Actor) bool {
	if requester.ID == review.BusinessID && requester.Type == users.AccountBusiness {
		return true
	}
	return review.CustomerID != nil && requester.ID == *review.CustomerID && requester.Type == users.AccountCustomer
}

// ComputeTurnState evaluates the thread for one participant. The thread
// must already be ordered by (created_at, id); ListByReview guarantees
// that.
//
// An empty thread is open to either participant. Otherwise it is your
// turn when the other side posted last. The flood cap blocks a third
// consecutive message from the same author: two in a row are tolerated
// because the opening message of any thread is self-authored by
// definition, so strict alternation from message one is impossible.
func ComputeTurnState(thread []messages.Message, review *reviews.Review, requester Actor) TurnState {
	if review.CustomerID == nil || !isParticipant(review, requester) {
		return TurnState{}
	}

	if len(thread) == 0 {
		return TurnState{CanRespond: true, IsMyTurn: true}
	}

	last := thread[len(thread)-1]
	myTurn := last.AuthorID != requester.ID

	flooded := false
	if len(thread) >= 2 {
		prev := thread[len(thread)-2]
		flooded = prev.AuthorID == requester.ID && last.AuthorID == requester.ID
	}

	return TurnState{
		CanRespond: myTurn && !flooded,
		IsMyTurn:   myTurn,
	}
}

// MatchesProfile reports agreement on at least 2 of the 3 comparable
// contact fields. Name comparison allows substring containment in either
// direction; phone compares digits only; address is compared after case
// and whitespace folding. A field absent on either side does not count.
func MatchesProfile(review *reviews.Review, profile Profile) bool {
	agree := 0

	if review.CustomerName != nil && profile.Name != nil {
		a := foldText(*review.CustomerName)
		b := foldText(*profile.Name)
		if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
			agree++
		}
	}
	if review.CustomerPhone != nil && profile.Phone != nil {
		a := digitsOnly(*review.CustomerPhone)
		b := digitsOnly(*profile.Phone)
		if a != "" && a == b {
			agree++
		}
	}
	if review.CustomerAddress != nil && profile.Address != nil {
		a := foldText(*review.CustomerAddress)
		b := foldText(*profile.Address)
		if a != "" && a == b {
			agree++
		}
	}

	return agree >= 2
}

func foldText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
