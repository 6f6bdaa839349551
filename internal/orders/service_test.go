package orders

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriastudio/studio-be/internal/fieldcodec"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/models/dto"
	"github.com/satriastudio/studio-be/internal/storage/memory"
)

func init() {
	logging.Configure("test", io.Discard, "error")
}

func codecFor(t *testing.T, seed byte) *fieldcodec.Codec {
	t.Helper()
	key := make([]byte, fieldcodec.KeySize)
	for i := range key {
		key[i] = seed ^ byte(i)
	}
	c, err := fieldcodec.New(key)
	require.NoError(t, err)
	return c
}

func TestSubmitEncodesContactFields(t *testing.T) {
	store := memory.NewStore()
	codec := codecFor(t, 1)
	svc := NewService(store, codec)
	ctx := context.Background()

	deadline := " 2026-11-01 "
	created, err := svc.Submit(ctx, dto.CreateOrderRequest{
		Name:     " Ayu ",
		WhatsApp: "+628123",
		Service:  "Logo Design",
		Deadline: &deadline,
		Detail:   "Logo please",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	stored, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	o := stored[0]
	assert.NotEqual(t, "Ayu", o.Name)
	assert.NotEqual(t, "+628123", o.WhatsApp)
	assert.NotEqual(t, "Logo please", o.Detail)
	assert.Equal(t, "Logo Design", o.Service)
	require.NotNil(t, o.Deadline)
	assert.Equal(t, "2026-11-01", *o.Deadline)
	for _, v := range []string{o.Name, o.WhatsApp, o.Detail} {
		assert.True(t, codec.Valid(v))
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ayu", list[0].Name)
	assert.Equal(t, "+628123", list[0].WhatsApp)
	assert.Equal(t, "Logo please", list[0].Detail)
	assert.False(t, list[0].Status.Degraded())
}

func TestSubmitValidation(t *testing.T) {
	svc := NewService(memory.NewStore(), codecFor(t, 2))
	_, err := svc.Submit(context.Background(), dto.CreateOrderRequest{
		Name:     "   ",
		WhatsApp: "+628123",
		Service:  "Logo",
		Detail:   "x",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name is required")
}

func TestListDegradesPerRecord(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	mine := codecFor(t, 3)
	foreign := codecFor(t, 4)

	svc := NewService(store, mine)
	_, err := svc.Submit(ctx, dto.CreateOrderRequest{Name: "Old", WhatsApp: "1", Service: "Logo", Detail: "first"})
	require.NoError(t, err)

	foreignName, err := foreign.Encode("Budi")
	require.NoError(t, err)
	_, err = store.CreateOrder(ctx, models.Order{Name: foreignName, WhatsApp: "0812 legacy", Service: "Branding", Detail: ""})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, dto.CreateOrderRequest{Name: "New", WhatsApp: "2", Service: "Logo", Detail: "third"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "New", list[0].Name)
	assert.Equal(t, "Old", list[2].Name)

	bad := list[1]
	assert.True(t, bad.Status.Degraded())
	assert.Equal(t, fieldcodec.StatusFailed, bad.Status.Name)
	assert.Equal(t, foreignName, bad.Name)
	assert.Equal(t, fieldcodec.StatusPlain, bad.Status.WhatsApp)
	assert.Equal(t, "0812 legacy", bad.WhatsApp)
	assert.Equal(t, fieldcodec.StatusEmpty, bad.Status.Detail)
}
