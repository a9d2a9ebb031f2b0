package healing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAnswers(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAnswers(t *testing.T) {
	path := writeAnswers(t, `
added:
  PUBLIC.SALES.MSRP: discard
removed:
  PUBLIC.SALES.REGION: restore
`)
	answers, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, ActionDiscard, answers.Added[keyMSRP])
	assert.Equal(t, ActionRestore, answers.Removed[keyRegion])

	res, prior, current := regionToMSRP()
	out, err := Heal(context.Background(), res, prior, current, NewScripted(answers))
	require.NoError(t, err)
	assert.Equal(t, prior, out.Healed)
}

func TestLoadAnswers_Invalid(t *testing.T) {
	_, err := LoadAnswers(writeAnswers(t, "added:\n  PUBLIC.SALES.MSRP: restore\n"))
	assert.ErrorContains(t, err, "must be keep or discard")

	_, err = LoadAnswers(writeAnswers(t, "default_removed: maybe\n"))
	assert.ErrorContains(t, err, "default_removed")

	_, err = LoadAnswers(writeAnswers(t, "added: [\n"))
	assert.ErrorContains(t, err, "failed to parse")

	_, err = LoadAnswers(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read")
}

func TestScripted_Defaults(t *testing.T) {
	ctx := context.Background()
	res, prior, current := regionToMSRP()

	out, err := Heal(ctx, res, prior, current, NewScripted(&Answers{}))
	require.NoError(t, err)
	assert.False(t, out.Changed)

	out, err = Heal(ctx, res, prior, current, NewScripted(&Answers{DefaultAdded: ActionDiscard, DefaultRemoved: ActionRestore}))
	require.NoError(t, err)
	assert.Equal(t, prior, out.Healed)

	_, err = Heal(ctx, res, prior, current, NewScripted(&Answers{Strict: true}))
	assert.ErrorIs(t, err, ErrNoAnswer)
}
