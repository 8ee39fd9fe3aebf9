package foodbook_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/delcom/foodbook"
)

type recordingSink struct {
	mu     sync.Mutex
	events []foodbook.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event foodbook.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) types() []foodbook.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]foodbook.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}

func TestAuther_RecordsActivity(t *testing.T) {
	f := newAuthFixture(t)
	sink := &recordingSink{}
	f.auther.WithActivitySink(sink)
	ctx := context.Background()

	user, err := f.auther.Register(ctx, "Ada", "a@b.com", "secret")
	require.NoError(t, err)

	_, _, err = f.auther.Login(ctx, "a@b.com", "wrong")
	require.Error(t, err)
	_, _, err = f.auther.Login(ctx, "nobody@b.com", "secret")
	require.Error(t, err)

	_, _, err = f.auther.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	require.NoError(t, f.auther.ChangePassword(ctx, user.ID, "secret", "secret-2"))
	_, err = f.auther.UpdateProfile(ctx, user.ID, "Ada L", "a@b.com")
	require.NoError(t, err)
	require.NoError(t, f.auther.Logout(ctx, user.ID))

	assert.Equal(t, []foodbook.ActivityEventType{
		foodbook.ActivityEventRegistered,
		foodbook.ActivityEventLoginFailure,
		foodbook.ActivityEventLoginFailure,
		foodbook.ActivityEventLoginSuccess,
		foodbook.ActivityEventPasswordChanged,
		foodbook.ActivityEventProfileUpdated,
		foodbook.ActivityEventLogout,
	}, sink.types())

	assert.Equal(t, user.ID.String(), sink.events[1].UserID)
	assert.Equal(t, "password_mismatch", sink.events[1].Metadata["reason"])
	assert.Empty(t, sink.events[2].UserID)
	assert.Equal(t, "unknown_email", sink.events[2].Metadata["reason"])
	assert.False(t, sink.events[0].OccurredAt.IsZero())
}

func TestAuther_SinkErrorDoesNotFailOperation(t *testing.T) {
	f := newAuthFixture(t)

	logger := new(MockLogger)
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", "Record activity error", mock.Anything).Once()

	f.auther.WithLogger(logger).WithActivitySink(foodbook.ActivitySinkFunc(
		func(context.Context, foodbook.ActivityEvent) error { return errors.New("sink down") },
	))

	_, err := f.auther.Register(context.Background(), "Ada", "a@b.com", "secret")
	require.NoError(t, err)
	logger.AssertExpectations(t)
}

func TestLogActivitySink(t *testing.T) {
	logger := new(MockLogger)
	logger.On("Info", "Account activity", mock.MatchedBy(func(args []any) bool {
		joined := map[any]any{}
		for i := 0; i+1 < len(args); i += 2 {
			joined[args[i]] = args[i+1]
		}
		return joined["event"] == "auth.login.failure" &&
			joined["user_id"] == "42" &&
			joined["reason"] == "password_mismatch"
	})).Once()

	sink := foodbook.LogActivitySink(logger)
	err := sink.Record(context.Background(), foodbook.ActivityEvent{
		EventType: foodbook.ActivityEventLoginFailure,
		UserID:    "42",
		Metadata:  map[string]any{"reason": "password_mismatch"},
	})
	require.NoError(t, err)
	logger.AssertExpectations(t)
}

func TestActivitySinkFunc_Nil(t *testing.T) {
	var f foodbook.ActivitySinkFunc
	assert.NoError(t, f.Record(context.Background(), foodbook.ActivityEvent{}))
}
