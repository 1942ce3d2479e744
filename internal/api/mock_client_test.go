package api_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/jewelchat/internal/api"
	"github.com/diogo/jewelchat/internal/models"
)

func TestMockChatClient(t *testing.T) {
	mock := &api.MockChatClient{
		SendTurnVal: &models.Reply{Text: "Mock response", Images: []string{}},
		ResetErr:    errors.New("reset down"),
	}

	var client api.ChatClientInterface = mock

	reply, err := client.SendTurn(context.Background(), models.ChatRequest{Query: "Hello", ThreadID: "t"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response", reply.Text)

	last, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "Hello", last.Query)

	assert.Error(t, client.ResetConversation(context.Background(), "t"))
	assert.Equal(t, []string{"t"}, mock.ResetThreads)

	assert.Equal(t, models.DefaultServerURL, client.BaseURL())
	client.Close()
	assert.True(t, mock.CloseCalled)
}
