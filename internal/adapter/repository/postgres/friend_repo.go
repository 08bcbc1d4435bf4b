package postgres

import (
	"context"

	"github.com/iho/goremit/internal/infrastructure/postgres/generated"
)

// FriendRepository implements usecase.RelationshipOracle over the friends
// table maintained by the friend-request subsystem.
type FriendRepository struct {
	queries *generated.Queries
}

// NewFriendRepository creates a new FriendRepository.
func NewFriendRepository(db generated.DBTX) *FriendRepository {
	return &FriendRepository{queries: generated.New(db)}
}

// Exists reports whether userA has userB recorded as a friend.
func (r *FriendRepository) Exists(ctx context.Context, userA, userB string) (bool, error) {
	return r.queries.FriendshipExists(ctx, generated.FriendshipExistsParams{
		UserEmail:   userA,
		FriendEmail: userB,
	})
}
