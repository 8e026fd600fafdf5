package kubernetes

import (
	"context"
	"io"
	"strings"
)

// MockExecutor is a mock implementation of CommandExecutor for testing
type MockExecutor struct {
	Responses map[string]MockResponse
	Commands  []MockCommand
}

// MockCommand represents a recorded command execution
type MockCommand struct {
	Name   string
	Args   []string
	Stream bool
}

// MockResponse represents a mock response for a command
type MockResponse struct {
	Error  error
	Stdout string
}

// NewMockExecutor creates a new MockExecutor
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  []MockCommand{},
		Responses: make(map[string]MockResponse),
	}
}

// Run records the command and returns a pre-configured response
func (m *MockExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	m.record(name, args, false)

	response := m.lookup(args)
	if response.Error != nil {
		return "", response.Error
	}
	return response.Stdout, nil
}

// Stream records the command and writes the configured stdout into w
// before returning the configured error, like a remote cat that fails late.
func (m *MockExecutor) Stream(ctx context.Context, w io.Writer, name string, args ...string) error {
	m.record(name, args, true)

	response := m.lookup(args)
	if _, err := io.WriteString(w, response.Stdout); err != nil {
		return err
	}
	return response.Error
}

func (m *MockExecutor) record(name string, args []string, stream bool) {
	m.Commands = append(m.Commands, MockCommand{
		Name:   name,
		Args:   append([]string(nil), args...),
		Stream: stream,
	})
}

// lookup returns the response with the longest prefix matching args
func (m *MockExecutor) lookup(args []string) MockResponse {
	cmdStr := strings.Join(args, " ")

	var (
		best    MockResponse
		bestLen = -1
	)
	for prefix, response := range m.Responses {
		if strings.HasPrefix(cmdStr, prefix) && len(prefix) > bestLen {
			best = response
			bestLen = len(prefix)
		}
	}

	// Default success
	return best
}

// SetResponse configures a mock response for commands whose arguments start with prefix
func (m *MockExecutor) SetResponse(prefix, stdout string, err error) {
	m.Responses[prefix] = MockResponse{
		Stdout: stdout,
		Error:  err,
	}
}

// GetCommands returns all executed commands (for assertions)
func (m *MockExecutor) GetCommands() []MockCommand {
	return m.Commands
}

// Reset clears all recorded commands and responses
func (m *MockExecutor) Reset() {
	m.Commands = []MockCommand{}
	m.Responses = make(map[string]MockResponse)
}
