package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
)

func newNotificationService(repo *fakeNotificationRepo) NotificationService {
	return NewNotificationService(repo, nil, "", nil, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestNotificationPublishSanitizesAndDelivers(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newNotificationService(repo)

	stream, cleanup := svc.Subscribe(7)
	defer cleanup()

	published, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  7,
		Subject: `Grades <script>alert("x")</script>posted`,
		Body:    "<p>Check your dashboard.</p>",
	})
	require.NoError(t, err)

	require.Equal(t, "Grades posted", published.Subject)
	require.Equal(t, "Check your dashboard.", published.Body)
	require.Len(t, repo.byUser(7), 1)

	select {
	case received := <-stream:
		require.Equal(t, published.ID, received.ID)
		require.Equal(t, uint(7), received.UserID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the notification")
	}
}

func TestNotificationPublishRejectsEmptySubject(t *testing.T) {
	svc := newNotificationService(newFakeNotificationRepo())

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  7,
		Subject: `<script>alert("x")</script>`,
	})
	require.True(t, IsValidationError(err))
}

func TestNotificationSubscribeDoesNotCrossUsers(t *testing.T) {
	svc := newNotificationService(newFakeNotificationRepo())

	stream, cleanup := svc.Subscribe(8)
	defer cleanup()

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  7,
		Subject: "Only for user seven",
	})
	require.NoError(t, err)

	select {
	case received := <-stream:
		t.Fatalf("user 8 received notification for user %d", received.UserID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotificationCleanupClosesStream(t *testing.T) {
	svc := newNotificationService(newFakeNotificationRepo())

	stream, cleanup := svc.Subscribe(7)
	cleanup()

	_, open := <-stream
	require.False(t, open)
}

func TestNotificationMarkRead(t *testing.T) {
	repo := newFakeNotificationRepo(models.Notification{ID: 1, UserID: 7, Subject: "Grades posted"})
	svc := newNotificationService(repo)

	read, err := svc.MarkRead(context.Background(), 1, 7)
	require.NoError(t, err)
	require.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	firstReadAt := *read.ReadAt
	again, err := svc.MarkRead(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, firstReadAt, *again.ReadAt)
}

func TestNotificationMarkReadScopedToOwner(t *testing.T) {
	repo := newFakeNotificationRepo(models.Notification{ID: 1, UserID: 7})
	svc := newNotificationService(repo)

	_, err := svc.MarkRead(context.Background(), 1, 8)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	_, err = svc.MarkRead(context.Background(), 99, 7)
	require.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationListRequiresUser(t *testing.T) {
	svc := newNotificationService(newFakeNotificationRepo())

	_, err := svc.List(context.Background(), 0, 20, 0)
	require.True(t, IsValidationError(err))
}

func TestNotificationCrossNodeDelivery(t *testing.T) {
	client, _ := dashboardRedis(t)

	repo := newFakeNotificationRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	publisherNode := NewNotificationService(repo, client, "academica", nil, validate, testLogger())
	subscriberNode := NewNotificationService(newFakeNotificationRepo(), client, "academica", nil, validate, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	subscriberNode.Start(ctx)

	stream, cleanup := subscriberNode.Subscribe(7)
	defer cleanup()

	// Give the redis consumer a moment to establish its subscription.
	time.Sleep(50 * time.Millisecond)

	published, err := publisherNode.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  7,
		Subject: "Exam scheduled",
	})
	require.NoError(t, err)

	select {
	case received := <-stream:
		require.Equal(t, published.ID, received.ID)
		require.Equal(t, "Exam scheduled", received.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("notification did not propagate across nodes")
	}
}
