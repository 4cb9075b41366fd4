package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationHasParticipant(t *testing.T) {
	conv := Conversation{CreatorID: 1, ClaimerID: 2}

	assert.True(t, conv.HasParticipant(1))
	assert.True(t, conv.HasParticipant(2))
	assert.False(t, conv.HasParticipant(3))
}

func TestConversationUnreadFor(t *testing.T) {
	conv := Conversation{CreatorID: 1, ClaimerID: 2, CreatorUnread: 4, ClaimerUnread: 7}

	assert.Equal(t, 4, conv.UnreadFor(1))
	assert.Equal(t, 7, conv.UnreadFor(2))
	assert.Equal(t, 0, conv.UnreadFor(3))
}
