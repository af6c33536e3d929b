package amqp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/amqp"
)

type publisherFunc func(ctx context.Context, driveIDs []string) error

func (f publisherFunc) PublishReceiptCleanup(ctx context.Context, driveIDs []string) error {
	return f(ctx, driveIDs)
}

func TestJanitor_Discard(t *testing.T) {
	type testCase struct {
		name      string
		driveIDs  []string
		publishEr error
		wantCalls int
		wantErr   bool
	}

	tests := []testCase{
		{name: "Publishes", driveIDs: []string{"a", "b"}, wantCalls: 1},
		{name: "NothingToDiscard", wantCalls: 0},
		{name: "PublishFails", driveIDs: []string{"a"}, publishEr: errors.New("channel closed"), wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			var got []string

			j := amqp.NewJanitor(publisherFunc(func(_ context.Context, ids []string) error {
				calls++
				got = ids

				return tt.publishEr
			}))

			err := j.Discard(context.Background(), tt.driveIDs)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantCalls, calls)

			if tt.wantCalls > 0 {
				assert.Equal(t, tt.driveIDs, got)
			}
		})
	}
}

func TestJanitor_WithoutBroker(t *testing.T) {
	assert.NoError(t, amqp.NewJanitor(nil).Discard(context.Background(), []string{"a"}))
}

func TestReceiptCleanupMessage_JSON(t *testing.T) {
	body, err := amqp.NewReceiptCleanupMessage([]string{"x"}).ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"drive_ids":["x"]`)

	_, err = amqp.ReceiptCleanupMessageFromJSON([]byte("{"))
	assert.Error(t, err)
}
