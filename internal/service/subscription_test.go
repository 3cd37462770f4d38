package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestSubscribe(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower", "follower@example.com", "password123")
	author := testhelpers.CreateTestUser(t, db, "author", "author@example.com", "password123")

	subscribed, err := svc.Subscribe(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, subscribed.ID)

	_, err = svc.Subscribe(ctx, follower.ID, author.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	following, err := svc.IsSubscribed(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The relation is directional.
	reverse, err := svc.IsSubscribed(ctx, author.ID, follower.ID)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestSubscribe_Self(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "loner", "loner@example.com", "password123")

	// Self-subscription fails the same way whether or not a relation
	// could exist.
	_, err := svc.Subscribe(ctx, user.ID, user.ID)
	assert.ErrorIs(t, err, service.ErrSelfSubscription)

	_, err = svc.Subscribe(ctx, user.ID, user.ID)
	assert.ErrorIs(t, err, service.ErrSelfSubscription)
}

func TestSubscribe_UnknownAuthor(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewSubscriptionService(db)

	follower := testhelpers.CreateTestUser(t, db, "follower", "follower@example.com", "password123")

	_, err := svc.Subscribe(context.Background(), follower.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower", "follower@example.com", "password123")
	author := testhelpers.CreateTestUser(t, db, "author", "author@example.com", "password123")

	_, err := svc.Subscribe(ctx, follower.ID, author.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(ctx, follower.ID, author.ID))

	err = svc.Unsubscribe(ctx, follower.ID, author.ID)
	assert.ErrorIs(t, err, service.ErrNotInList)
}

func TestSubscriptions_OrderedAndPaged(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower", "follower@example.com", "password123")
	zoe := testhelpers.CreateTestUser(t, db, "zoe", "zoe@example.com", "password123")
	adam := testhelpers.CreateTestUser(t, db, "adam", "adam@example.com", "password123")
	mila := testhelpers.CreateTestUser(t, db, "mila", "mila@example.com", "password123")

	for _, author := range []uuid.UUID{zoe.ID, adam.ID, mila.ID} {
		_, err := svc.Subscribe(ctx, follower.ID, author)
		require.NoError(t, err)
	}

	authors, count, err := svc.Subscriptions(ctx, follower.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, authors, 2)
	assert.Equal(t, "adam", authors[0].Username)
	assert.Equal(t, "mila", authors[1].Username)

	authors, _, err = svc.Subscriptions(ctx, follower.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "zoe", authors[0].Username)
}

func TestSubscriptions_Empty(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewSubscriptionService(db)

	follower := testhelpers.CreateTestUser(t, db, "follower", "follower@example.com", "password123")

	_, _, err := svc.Subscriptions(context.Background(), follower.ID, 1, 10)
	assert.ErrorIs(t, err, service.ErrNoSubscriptions)
}

func TestFollowingSet_Anonymous(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewSubscriptionService(db)

	following, err := svc.FollowingSet(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, following)
}
