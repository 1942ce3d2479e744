package api

import (
	"context"
	"sync"

	"github.com/diogo/jewelchat/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	// Mock return values
	SendTurnVal  *models.Reply
	SendTurnErr  error
	ResetErr     error
	SaveImageVal string
	SaveImageErr error
	BaseURLVal   string

	// Call counters/recorders
	mu           sync.Mutex
	Requests     []models.ChatRequest
	ResetThreads []string
	SavedRefs    []string
	CloseCalled  bool
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) SendTurn(ctx context.Context, req models.ChatRequest) (*models.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	return m.SendTurnVal, m.SendTurnErr
}

func (m *MockChatClient) ResetConversation(ctx context.Context, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetThreads = append(m.ResetThreads, threadID)
	return m.ResetErr
}

func (m *MockChatClient) SaveImage(ref string, opts ImageDownloadOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavedRefs = append(m.SavedRefs, ref)
	return m.SaveImageVal, m.SaveImageErr
}

func (m *MockChatClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return models.DefaultServerURL
	}
	return m.BaseURLVal
}

func (m *MockChatClient) Close() {
	m.CloseCalled = true
}

// LastRequest returns the most recent SendTurn request
func (m *MockChatClient) LastRequest() (models.ChatRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return models.ChatRequest{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}
