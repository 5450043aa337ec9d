// Package claimcodes issues the short opaque codes a business hands to a
// customer so the customer can find and claim the review written about
// them without guessing numeric ids.
package claimcodes

import (
	"errors"
	"strings"

	"github.com/speps/go-hashids/v2"
)

var ErrInvalidCode = errors.New("invalid claim code")

// Alphabet drops lowercase and ambiguous characters (0/O, 1/I) so codes
// survive being read over the phone.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type Codec struct {
	h *hashids.HashID
}

func New(salt string) (*Codec, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	hd.Alphabet = alphabet
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return &Codec{h: h}, nil
}

func (c *Codec) Encode(reviewID int64) (string, error) {
	return c.h.EncodeInt64([]int64{reviewID})
}

func (c *Codec) Decode(code string) (int64, error) {
	ids, err := c.h.DecodeInt64WithError(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil || len(ids) != 1 {
		return 0, ErrInvalidCode
	}
	return ids[0], nil
}
