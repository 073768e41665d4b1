package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChat(t *testing.T) {
	chat := NewChat("c1", "car1", "u1", time.Now())

	assert.True(t, chat.ReadByAdmin)
	assert.True(t, chat.ReadByUser)
	assert.Nil(t, chat.LastMessageAt)
	assert.NotNil(t, chat.Messages)
	assert.Empty(t, chat.Messages)
}

func TestAddMessage(t *testing.T) {
	chat := NewChat("c1", "car1", "u1", time.Now())
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	chat.AddMessage(Message{ID: "m1", SentBy: SenderUser, Message: "hi"}, t1)
	assert.True(t, chat.ReadByUser)
	assert.False(t, chat.ReadByAdmin)
	require.NotNil(t, chat.LastMessageAt)
	assert.Equal(t, t1, *chat.LastMessageAt)

	chat.AddMessage(Message{ID: "m2", SentBy: SenderAdmin, Message: "hello"}, t2)
	assert.True(t, chat.ReadByAdmin)
	assert.False(t, chat.ReadByUser)
	assert.Equal(t, t2, *chat.LastMessageAt)

	require.Len(t, chat.Messages, 2)
	assert.Equal(t, "m2", chat.Messages[0].ID, "newest message first")
	assert.Equal(t, "m1", chat.Messages[1].ID)
}

func TestAddMessageIgnoresDuplicateID(t *testing.T) {
	chat := NewChat("c1", "car1", "u1", time.Now())
	at := time.Now()

	chat.AddMessage(Message{ID: "m1", SentBy: SenderUser, Message: "hi"}, at)
	chat.AddMessage(Message{ID: "m1", SentBy: SenderUser, Message: "hi"}, at.Add(time.Second))

	assert.Len(t, chat.Messages, 1)
	assert.Equal(t, at, *chat.LastMessageAt)
}

func TestMarkRead(t *testing.T) {
	chat := NewChat("c1", "car1", "u1", time.Now())
	chat.AddMessage(Message{ID: "m1", SentBy: SenderUser, Message: "hi"}, time.Now())

	chat.MarkRead(SenderAdmin)

	assert.True(t, chat.ReadByAdmin)
	assert.True(t, chat.ReadByUser)
}
