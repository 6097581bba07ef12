package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"operator/models"
)

func TestCreateChatBecomesCurrent(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	chat := decode(t, w)
	assert.Equal(t, models.DefaultChatTitle, chat["title"])
	chatID := chat["id"].(string)

	w = env.do(t, http.MethodGet, "/api/chats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, chatID, body["current_chat_id"])
}

func TestListChatsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	var ids []string
	for i := 0; i < 3; i++ {
		w := env.do(t, http.MethodPost, "/api/chats", token, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		ids = append(ids, decode(t, w)["id"].(string))
		time.Sleep(2 * time.Millisecond) // keep created_at distinct
	}

	w := env.do(t, http.MethodGet, "/api/chats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	chats := decode(t, w)["chats"].([]any)
	require.Len(t, chats, 3)
	assert.Equal(t, ids[2], chats[0].(map[string]any)["id"])
	assert.Equal(t, ids[0], chats[2].(map[string]any)["id"])
}

func TestGetChatSelectsIt(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	first := decode(t, w)["id"].(string)
	w = env.do(t, http.MethodPost, "/api/chats", token, nil)
	second := decode(t, w)["id"].(string)

	// second is current; opening the first switches back
	w = env.do(t, http.MethodGet, "/api/chats/"+first, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/chats", token, nil)
	body := decode(t, w)
	assert.Equal(t, first, body["current_chat_id"])
	assert.NotEqual(t, second, body["current_chat_id"])
}

func TestGetUnknownChat(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodGet, "/api/chats/00000000-0000-0000-0000-000000000001", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/chats/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatsAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	w := env.do(t, http.MethodPost, "/api/chats", alice, nil)
	chatID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodGet, "/api/chats/"+chatID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/chats/"+chatID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessageRequiresAPIKey(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	chatID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", token, gin.H{"content": "hello"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "Please set your API key in API Settings to start chatting.", decode(t, w)["error"])
}

func TestSendMessageCodeReply(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.setAPIKey(t, token)

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	chatID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", token, gin.H{"content": "show me some html"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	messages := body["messages"].([]any)
	require.Len(t, messages, 2)

	userMsg := messages[0].(map[string]any)
	assert.Equal(t, "user", userMsg["role"])
	assert.Equal(t, "show me some html", userMsg["content"])

	reply := messages[1].(map[string]any)
	assert.Equal(t, "assistant", reply["role"])
	require.NotNil(t, reply["code_blocks"])
	blocks := reply["code_blocks"].(map[string]any)
	assert.Contains(t, blocks["html"].(string), "<html")
	assert.NotEmpty(t, blocks["css"])
	assert.NotEmpty(t, blocks["js"])
	assert.Nil(t, reply["show_preview"])
}

func TestSendMessagePreviewReply(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.setAPIKey(t, token)

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	chatID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", token, gin.H{"content": "open example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	reply := decode(t, w)["messages"].([]any)[1].(map[string]any)
	assert.Equal(t, true, reply["show_preview"])
	assert.Nil(t, reply["code_blocks"])
}

func TestAutoTitleFromFirstMessage(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.setAPIKey(t, token)

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	chatID := decode(t, w)["id"].(string)

	long := "this message is definitely longer than thirty characters"
	w = env.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", token, gin.H{"content": long})
	require.Equal(t, http.StatusOK, w.Code)

	title := decode(t, w)["chat"].(map[string]any)["title"].(string)
	assert.Equal(t, long[:30]+"...", title)
	assert.Equal(t, 33, len([]rune(title)))
	assert.Equal(t, 1, strings.Count(title, "..."))

	// a later message never retitles
	w = env.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", token, gin.H{"content": "a different long message that would produce another title"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, title, decode(t, w)["chat"].(map[string]any)["title"])
}

func TestAutoTitleShortMessageNoEllipsis(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.setAPIKey(t, token)

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	chatID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", token, gin.H{"content": "short one"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "short one", decode(t, w)["chat"].(map[string]any)["title"])
}

func TestMessagesKeepInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.setAPIKey(t, token)

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	chatID := decode(t, w)["id"].(string)

	for i := 0; i < 4; i++ {
		w = env.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", token, gin.H{"content": fmt.Sprintf("message %d", i)})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/chats/"+chatID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	messages := decode(t, w)["messages"].([]any)
	require.Len(t, messages, 8) // 4 user + 4 assistant, interleaved

	for i, raw := range messages {
		msg := raw.(map[string]any)
		assert.Equal(t, float64(i), msg["position"], "position %d", i)
		if i%2 == 0 {
			assert.Equal(t, "user", msg["role"])
			assert.Equal(t, fmt.Sprintf("message %d", i/2), msg["content"])
		} else {
			assert.Equal(t, "assistant", msg["role"])
		}
	}
}

func TestDeleteCurrentChatCreatesReplacement(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	chatID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodDelete, "/api/chats/"+chatID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	replacement := body["current_chat"].(map[string]any)
	assert.Equal(t, models.DefaultChatTitle, replacement["title"])
	assert.NotEqual(t, chatID, replacement["id"])

	w = env.do(t, http.MethodGet, "/api/chats", token, nil)
	listBody := decode(t, w)
	assert.Equal(t, replacement["id"], listBody["current_chat_id"])
	assert.Len(t, listBody["chats"].([]any), 1)
}

func TestDeleteNonCurrentChat(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	first := decode(t, w)["id"].(string)
	w = env.do(t, http.MethodPost, "/api/chats", token, nil)
	second := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodDelete, "/api/chats/"+first, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Nil(t, body["current_chat"], "deleting a non-current chat must not switch chats")

	w = env.do(t, http.MethodGet, "/api/chats", token, nil)
	assert.Equal(t, second, decode(t, w)["current_chat_id"])
}

func TestDeleteChatRemovesMessages(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.setAPIKey(t, token)

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	chatID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", token, gin.H{"content": "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/chats/"+chatID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	count, err := env.repos.Chats.CountMessages()
	require.NoError(t, err)
	assert.Zero(t, count)
}
