package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCommander records command executions for testing
type mockCommander struct {
	calls      int
	name       string
	args       []string
	startError error
}

func (m *mockCommander) Start(name string, args ...string) error {
	m.calls++
	m.name = name
	m.args = args
	return m.startError
}

const statusURL = "http://192.168.1.20:8081/healthz"

func TestOpenWithCommander_Platforms(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"linux", "xdg-open", []string{statusURL}},
		{"freebsd", "xdg-open", []string{statusURL}},
		{"darwin", "open", []string{statusURL}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", statusURL}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			mock := &mockCommander{}
			require.NoError(t, OpenWithCommander(statusURL, mock, tt.goos))
			assert.Equal(t, tt.name, mock.name)
			assert.Equal(t, tt.args, mock.args)
		})
	}
}

func TestOpenWithCommander_UnsupportedPlatform(t *testing.T) {
	mock := &mockCommander{}

	err := OpenWithCommander(statusURL, mock, "plan9")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported platform: plan9")
	assert.Zero(t, mock.calls)
}

func TestOpenWithCommander_RejectsNonHTTP(t *testing.T) {
	for _, raw := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "/healthz", "http://"} {
		t.Run(raw, func(t *testing.T) {
			mock := &mockCommander{}
			assert.Error(t, OpenWithCommander(raw, mock, "linux"))
			assert.Zero(t, mock.calls)
		})
	}
}

func TestOpenWithCommander_CommandError(t *testing.T) {
	mock := &mockCommander{startError: errors.New("command execution failed")}

	err := OpenWithCommander(statusURL, mock, "linux")

	assert.EqualError(t, err, "command execution failed")
}

func TestOpenWithCommander_KeepsQuery(t *testing.T) {
	mock := &mockCommander{}
	raw := "https://vote.school.test/api/schools/s1/results?live=1"

	require.NoError(t, OpenWithCommander(raw, mock, "darwin"))
	assert.Equal(t, []string{raw}, mock.args)
}

func TestOpen_UsesDefaultCommander(t *testing.T) {
	original := defaultCommander
	defer func() { defaultCommander = original }()

	mock := &mockCommander{}
	defaultCommander = mock

	err := Open(statusURL)
	if err != nil {
		// Unsupported build platforms report before reaching the commander
		assert.Contains(t, err.Error(), "unsupported platform")
		return
	}
	assert.Equal(t, 1, mock.calls)
	assert.Contains(t, mock.args, statusURL)
}

func TestRealCommander_StartMissingBinary(t *testing.T) {
	err := RealCommander{}.Start("nonexistent-command-xyz-123")
	assert.Error(t, err)
}
