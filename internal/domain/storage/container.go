package storage

import (
	"welp/internal/domain/access"
	"welp/internal/domain/claims"
	"welp/internal/domain/duplicates"
	"welp/internal/domain/messages"
	"welp/internal/domain/pushtokens"
	"welp/internal/domain/reviews"
	"welp/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool       *pgxpool.Pool
	Users      users.Store
	Reviews    reviews.Store
	Messages   messages.Store
	Claims     claims.Store
	Access     access.Store
	PushTokens pushtokens.Store
	Duplicates duplicates.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:       db,
		Users:      users.NewRepository(db),
		Reviews:    reviews.NewRepository(db),
		Messages:   messages.NewRepository(db),
		Claims:     claims.NewRepository(db),
		Access:     access.NewRepository(db),
		PushTokens: pushtokens.NewRepository(db),
		Duplicates: duplicates.NewRepository(db),
	}
}
