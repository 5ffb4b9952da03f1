package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniworkhq/uniwork/internal/app"
	"github.com/uniworkhq/uniwork/internal/models"
)

func TestAssistantSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Here is the summary."}}]}`))
	}))
	t.Cleanup(server.Close)

	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewAssistantService(db, app.AssistantConfig{
		Endpoint: server.URL,
		APIKey:   "secret",
		Model:    "gpt-4o-mini",
	})
	require.NoError(t, err)

	conversation, err := service.StartConversation(testCtx(), workspace.ID, owner.ID, "Weekly digest")
	require.NoError(t, err)

	reply, err := service.SendMessage(testCtx(), workspace.ID, owner.ID, conversation.ID, "Summarise the week")
	require.NoError(t, err)
	assert.Equal(t, models.AssistantRoleAssistant, reply.Role)
	assert.Equal(t, "Here is the summary.", reply.Content)

	loaded, err := service.GetConversation(testCtx(), workspace.ID, owner.ID, conversation.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, models.AssistantRoleUser, loaded.Messages[0].Role)
	assert.Equal(t, models.AssistantRoleAssistant, loaded.Messages[1].Role)
}

func TestAssistantFallsBackWhenUnconfigured(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewAssistantService(db, app.AssistantConfig{})
	require.NoError(t, err)

	conversation, err := service.StartConversation(testCtx(), workspace.ID, owner.ID, "")
	require.NoError(t, err)

	reply, err := service.SendMessage(testCtx(), workspace.ID, owner.ID, conversation.ID, "Hello?")
	require.NoError(t, err)
	assert.Equal(t, assistantFallbackReply, reply.Content)
}

func TestAssistantFallsBackOnEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewAssistantService(db, app.AssistantConfig{Endpoint: server.URL})
	require.NoError(t, err)

	conversation, err := service.StartConversation(testCtx(), workspace.ID, owner.ID, "")
	require.NoError(t, err)

	reply, err := service.SendMessage(testCtx(), workspace.ID, owner.ID, conversation.ID, "Hello?")
	require.NoError(t, err)
	assert.Equal(t, assistantFallbackReply, reply.Content)

	// The user's prompt is stored even though the endpoint failed.
	loaded, err := service.GetConversation(testCtx(), workspace.ID, owner.ID, conversation.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
}

func TestAssistantConversationScopedToUser(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewAssistantService(db, app.AssistantConfig{})
	require.NoError(t, err)

	conversation, err := service.StartConversation(testCtx(), workspace.ID, owner.ID, "Private")
	require.NoError(t, err)

	_, err = service.GetConversation(testCtx(), workspace.ID, other.ID, conversation.ID)
	require.Error(t, err)
}
