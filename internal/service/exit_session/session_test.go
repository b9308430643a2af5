package exit_session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItems(t *testing.T, titles ...string) []*domain.ChecklistItem {
	t.Helper()
	out := make([]*domain.ChecklistItem, 0, len(titles))
	for i, title := range titles {
		item, err := domain.NewChecklistItem(title, "", i, time.Now())
		require.NoError(t, err)
		out = append(out, item)
	}
	return out
}

func TestNewSession_AutoCheckPhone(t *testing.T) {
	t.Parallel()
	items := newItems(t, "Keys", "iPhone", "Headphones")

	s := NewSession(items, TriggerExit, true, time.Now())
	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.False(t, entries[0].Checked)
	assert.True(t, entries[1].Checked)
	assert.True(t, entries[2].Checked, "title match includes headphones")

	off := NewSession(items, TriggerExit, false, time.Now())
	assert.Equal(t, []string{"Keys", "iPhone", "Headphones"}, off.UncheckedTitles())
}

func TestSession_ToggleAndSetChecked(t *testing.T) {
	t.Parallel()
	items := newItems(t, "Keys", "Wallet")
	s := NewSession(items, TriggerTest, false, time.Now())

	checked, err := s.Toggle(items[0].ID)
	require.NoError(t, err)
	assert.True(t, checked)
	assert.False(t, s.AllChecked())
	assert.Equal(t, []uuid.UUID{items[1].ID}, s.UncheckedIDs())

	require.NoError(t, s.SetChecked(items[1].ID, true))
	assert.True(t, s.AllChecked())
	assert.Empty(t, s.UncheckedTitles())

	checked, err = s.Toggle(items[0].ID)
	require.NoError(t, err)
	assert.False(t, checked)

	_, err = s.Toggle(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.ErrorIs(t, s.SetChecked(uuid.New(), true), ErrUnknownItem)
}

func TestSession_EmptyIsComplete(t *testing.T) {
	t.Parallel()
	s := NewSession(nil, TriggerExit, true, time.Now())
	assert.True(t, s.AllChecked())
}

func TestSession_CloneIsIndependent(t *testing.T) {
	t.Parallel()
	items := newItems(t, "Keys")
	s := NewSession(items, TriggerExit, false, time.Now())

	c := s.Clone()
	_, err := c.Toggle(items[0].ID)
	require.NoError(t, err)

	assert.False(t, s.AllChecked())
	assert.True(t, c.AllChecked())
}

func TestSession_MarshalJSON(t *testing.T) {
	t.Parallel()
	items := newItems(t, "Keys")
	s := NewSession(items, TriggerExit, false, time.Now())

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got struct {
		ID         uuid.UUID `json:"id"`
		Items      []Entry   `json:"items"`
		AllChecked bool      `json:"all_checked"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Keys", got.Items[0].Title)
	assert.False(t, got.AllChecked)
}
