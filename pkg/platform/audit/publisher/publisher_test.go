package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "formledger/pkg/domain"
	"formledger/pkg/platform/audit"
	"formledger/pkg/platform/audit/store/memory"
	"formledger/pkg/requestcontext"
)

func testActor(seed byte) id.Address {
	var a id.Address
	a[0] = seed
	return a
}

func TestPublisherEmit(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub, err := New(store)
	require.NoError(t, err)

	actor := testActor(1)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)
	ctx = requestcontext.WithRequestID(ctx, "req-1")

	event := audit.NewEvent(audit.CategoryCompliance, audit.ActionFormApproved, actor)
	event.DocumentID = "form-1"
	require.NoError(t, pub.Emit(ctx, event))

	events := store.List()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionFormApproved, events[0].Action)
	assert.Equal(t, actor.String(), events[0].Actor)
	assert.Equal(t, "form-1", events[0].DocumentID)
	assert.Equal(t, at, events[0].Timestamp)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.NotEqual(t, [16]byte{}, [16]byte(events[0].ID))
}

func TestPublisherRejectsIncompleteEvents(t *testing.T) {
	pub, err := New(memory.NewInMemoryStore())
	require.NoError(t, err)

	err = pub.Emit(context.Background(), audit.Event{Action: audit.ActionAdminAdded})
	require.Error(t, err)

	err = pub.Emit(context.Background(), audit.Event{Actor: testActor(2).String()})
	require.Error(t, err)
}

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("broker unreachable")
}

func TestPublisherFailClosed(t *testing.T) {
	pub, err := New(failingStore{})
	require.NoError(t, err)

	event := audit.NewEvent(audit.CategorySecurity, audit.ActionAdminAdded, testActor(3))
	err = pub.Emit(context.Background(), event)
	require.Error(t, err, "a failed audit write must surface to the caller")
}

func TestPublisherRequiresStore(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
