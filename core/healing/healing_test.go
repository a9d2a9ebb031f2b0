package healing

import (
	"context"
	"errors"
	"testing"

	"schema-drift/core/drift"
	"schema-drift/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDecider struct {
	mock.Mock
}

func (m *mockDecider) DiscardAdded(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *mockDecider) ConfirmDiscard(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *mockDecider) RestoreRemoved(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

const (
	keyID     schema.FlatKey = "PUBLIC.SALES.ID"
	keyRegion schema.FlatKey = "PUBLIC.SALES.REGION"
	keyMSRP   schema.FlatKey = "PUBLIC.SALES.MSRP"
)

// regionToMSRP is the drift where REGION TEXT disappeared and MSRP NUMBER appeared.
func regionToMSRP() (*drift.Result, schema.FlatMap, schema.FlatMap) {
	prior := schema.FlatMap{
		keyID:     {Name: "ID", DataType: "NUMBER"},
		keyRegion: {Name: "REGION", DataType: "TEXT", Nullable: true},
	}
	current := schema.FlatMap{
		keyID:   {Name: "ID", DataType: "NUMBER"},
		keyMSRP: {Name: "MSRP", DataType: "NUMBER", Nullable: true},
	}
	res := drift.DiffFlat(prior, current)
	renamed, _ := drift.NewMatcher(drift.Config{}).Match(res)
	return res.WithRenamed(renamed), prior, current
}

func TestHeal_KeepAndRestore(t *testing.T) {
	res, prior, current := regionToMSRP()
	d := new(mockDecider)
	d.On("DiscardAdded", keyMSRP).Return(false, nil).Once()
	d.On("RestoreRemoved", keyRegion).Return(true, nil).Once()

	out, err := Heal(context.Background(), res, prior, current, d)
	require.NoError(t, err)

	d.AssertExpectations(t)
	d.AssertNotCalled(t, "ConfirmDiscard", mock.Anything)
	assert.True(t, out.Changed)
	assert.Equal(t, []Decision{
		{Key: keyMSRP, Action: ActionKeep},
		{Key: keyRegion, Action: ActionRestore},
	}, out.Decisions)
	assert.Equal(t, []schema.FlatKey{keyID, keyMSRP, keyRegion}, out.Healed.Keys())
	assert.Equal(t, prior[keyRegion], out.Healed[keyRegion])

	// Inputs are untouched.
	assert.NotContains(t, current, keyRegion)
}

func TestHeal_DiscardNeedsConfirmation(t *testing.T) {
	res, prior, current := regionToMSRP()

	t.Run("Confirmed", func(t *testing.T) {
		d := new(mockDecider)
		d.On("DiscardAdded", keyMSRP).Return(true, nil)
		d.On("ConfirmDiscard", keyMSRP).Return(true, nil)
		d.On("RestoreRemoved", keyRegion).Return(false, nil)

		out, err := Heal(context.Background(), res, prior, current, d)
		require.NoError(t, err)
		assert.NotContains(t, out.Healed, keyMSRP)
		assert.True(t, out.Changed)
		assert.Equal(t, ActionDiscard, out.Decisions[0].Action)
		assert.Equal(t, ActionLeaveAbsent, out.Decisions[1].Action)
		assert.Contains(t, current, keyMSRP)
	})

	t.Run("Declined", func(t *testing.T) {
		d := new(mockDecider)
		d.On("DiscardAdded", keyMSRP).Return(true, nil)
		d.On("ConfirmDiscard", keyMSRP).Return(false, nil)
		d.On("RestoreRemoved", keyRegion).Return(false, nil)

		out, err := Heal(context.Background(), res, prior, current, d)
		require.NoError(t, err)
		assert.Contains(t, out.Healed, keyMSRP)
		assert.False(t, out.Changed)
		assert.Equal(t, ActionKeep, out.Decisions[0].Action)
	})
}

func TestHeal_SkipsWithoutDrift(t *testing.T) {
	current := schema.FlatMap{keyID: {Name: "ID", DataType: "NUMBER"}}
	d := new(mockDecider)

	out, err := Heal(context.Background(), drift.DiffFlat(nil, current), nil, current, d)
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Equal(t, current, out.Healed)
	d.AssertNotCalled(t, "DiscardAdded", mock.Anything)

	out, err = Heal(context.Background(), drift.DiffFlat(current, current), current, current, d)
	require.NoError(t, err)
	assert.Empty(t, out.Decisions)
}

func TestHeal_RenamesAreNotPrompted(t *testing.T) {
	prior := schema.FlatMap{"PUBLIC.SALES.CONTACTLASTNAME": {Name: "CONTACTLASTNAME", DataType: "TEXT"}}
	current := schema.FlatMap{"PUBLIC.SALES.LASTNAME": {Name: "LASTNAME", DataType: "TEXT"}}
	res := drift.DiffFlat(prior, current)
	renamed, _ := drift.NewMatcher(drift.Config{}).Match(res)

	d := new(mockDecider)
	out, err := Heal(context.Background(), res.WithRenamed(renamed), prior, current, d)
	require.NoError(t, err)
	assert.Empty(t, d.Calls)
	assert.False(t, out.Changed)
	assert.Equal(t, current, out.Healed)
}

func TestHeal_DeciderErrorAborts(t *testing.T) {
	res, prior, current := regionToMSRP()
	d := new(mockDecider)
	d.On("DiscardAdded", keyMSRP).Return(false, ErrInputClosed)

	out, err := Heal(context.Background(), res, prior, current, d)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrInputClosed)
	assert.Contains(t, err.Error(), string(keyMSRP))
}

func TestHeal_CancelledContext(t *testing.T) {
	res, prior, current := regionToMSRP()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Heal(ctx, res, prior, current, Accept)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPolicies(t *testing.T) {
	res, prior, current := regionToMSRP()
	ctx := context.Background()

	out, err := Heal(ctx, res, prior, current, Accept)
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Equal(t, current, out.Healed)

	out, err = Heal(ctx, res, prior, current, Revert)
	require.NoError(t, err)
	assert.Equal(t, prior, out.Healed)

	out, err = Heal(ctx, res, prior, current, Preserve)
	require.NoError(t, err)
	assert.Len(t, out.Healed, 3)

	p, err := ParsePolicy("revert")
	require.NoError(t, err)
	assert.Equal(t, Revert, p)
	_, err = ParsePolicy("yolo")
	assert.Error(t, err)
}
