package notify

import (
	"io"
	"testing"

	"playeasy/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInbox() *Inbox {
	logger := zerolog.New(io.Discard)
	return NewInbox(&logger)
}

func TestInbox(t *testing.T) {
	t.Run("NewestFirst", func(t *testing.T) {
		inbox := newTestInbox()
		inbox.Notify("first", "m1", models.KindInfo)
		inbox.Notify("second", "m2", models.KindSuccess)

		all := inbox.All()
		require.Len(t, all, 2)
		assert.Equal(t, "second", all[0].Title)
		assert.Equal(t, "first", all[1].Title)
		assert.NotEmpty(t, all[0].ID)
		assert.False(t, all[0].Read)
	})

	t.Run("UnreadCount", func(t *testing.T) {
		inbox := newTestInbox()
		inbox.Notify("a", "m", models.KindInfo)
		inbox.Notify("b", "m", models.KindInfo)
		assert.Equal(t, 2, inbox.UnreadCount())

		id := inbox.All()[0].ID
		inbox.MarkRead(id)
		assert.Equal(t, 1, inbox.UnreadCount())

		inbox.MarkRead("unknown-id")
		assert.Equal(t, 1, inbox.UnreadCount())

		inbox.MarkAllRead()
		assert.Zero(t, inbox.UnreadCount())
	})

	t.Run("Delete", func(t *testing.T) {
		inbox := newTestInbox()
		inbox.Notify("keep", "m", models.KindInfo)
		inbox.Notify("drop", "m", models.KindWarning)

		id := inbox.All()[0].ID
		inbox.Delete(id)

		all := inbox.All()
		require.Len(t, all, 1)
		assert.Equal(t, "keep", all[0].Title)

		inbox.Delete("unknown-id")
		assert.Len(t, inbox.All(), 1)
	})

	t.Run("Clear", func(t *testing.T) {
		inbox := newTestInbox()
		inbox.Notify("a", "m", models.KindInfo)
		inbox.Clear()
		assert.Empty(t, inbox.All())
		assert.Zero(t, inbox.UnreadCount())
	})

	t.Run("AllReturnsCopy", func(t *testing.T) {
		inbox := newTestInbox()
		inbox.Notify("a", "m", models.KindInfo)

		all := inbox.All()
		all[0].Read = true
		assert.Equal(t, 1, inbox.UnreadCount())
	})
}

func TestInboxSeedDemo(t *testing.T) {
	t.Run("FillsEmptyInbox", func(t *testing.T) {
		inbox := newTestInbox()
		inbox.SeedDemo()

		all := inbox.All()
		require.Len(t, all, 3)
		assert.Equal(t, "Booking Confirmed", all[0].Title)
		assert.Equal(t, 2, inbox.UnreadCount())
	})

	t.Run("SkipsNonEmptyInbox", func(t *testing.T) {
		inbox := newTestInbox()
		inbox.Notify("existing", "m", models.KindInfo)
		inbox.SeedDemo()
		assert.Len(t, inbox.All(), 1)
	})
}
