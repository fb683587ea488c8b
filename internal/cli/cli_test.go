// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pdfchat/internal/backend"
	"github.com/jeranaias/pdfchat/internal/exchange"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// fakeService records calls to /upload-pdf and /ask.
type fakeService struct {
	mu        sync.Mutex
	calls     []string
	questions []string
	answer    string
	askStatus int
}

func newFakeService(t *testing.T, answer string) (*fakeService, *httptest.Server) {
	t.Helper()
	fs := &fakeService{answer: answer, askStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc(backend.IngestPath, func(w http.ResponseWriter, r *http.Request) {
		fs.record("upload")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(backend.AskPath, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Question string `json:"question"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		fs.mu.Lock()
		fs.calls = append(fs.calls, "ask")
		fs.questions = append(fs.questions, body.Question)
		status := fs.askStatus
		fs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": fs.answer})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func (f *fakeService) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeService) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// isolate points the config directory at a temp dir so no user files are
// read or written.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PDFCHAT_HOME", dir)
	t.Setenv("PDFCHAT_BACKEND_URL", "")
	t.Setenv("PDFCHAT_TIMEOUT", "")
	t.Setenv("PDFCHAT_LOG_LEVEL", "")
	t.Setenv("PDFCHAT_LOG_PATH", "")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))
	return path
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", usageErrorf("bad"), ExitUsage},
		{"wrapped usage", errors.Wrap(&UsageError{Err: errors.New("x")}, "ctx"), ExitUsage},
		{"missing input", errors.Wrap(exchange.ErrMissingInput, "upload"), ExitUsage},
		{"connection", &backend.ClientError{Type: backend.ErrTypeConnection}, ExitBackend},
		{"status", errors.Wrap(&backend.ClientError{Type: backend.ErrTypeStatus, StatusCode: 500}, "upload"), ExitBackend},
		{"malformed", &backend.ClientError{Type: backend.ErrTypeInvalidResponse}, ExitError},
		{"other", errAnswerFailed, ExitError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

// =============================================================================
// ASK
// =============================================================================

func TestAskPrintsAnswer(t *testing.T) {
	isolate(t)
	fs, srv := newFakeService(t, "Paris.")

	out, err := execute(t, "", "--backend", srv.URL, "ask", "What", "is", "the", "capital?")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris.")
	assert.Equal(t, []string{"ask"}, fs.callLog())
	assert.Equal(t, []string{"What is the capital?"}, fs.questions)
}

func TestAskWithFileUploadsFirst(t *testing.T) {
	isolate(t)
	fs, srv := newFakeService(t, "It is about cats.")
	path := writePDF(t, "paper.pdf")

	out, err := execute(t, "", "--backend", srv.URL, "ask", "--file", path, "topic?")
	require.NoError(t, err)
	assert.Contains(t, out, exchange.NoticeUploadOK)
	assert.Contains(t, out, "It is about cats.")
	assert.Equal(t, []string{"upload", "ask"}, fs.callLog())
}

func TestAskFailureIsReported(t *testing.T) {
	isolate(t)
	fs, srv := newFakeService(t, "ignored")
	fs.askStatus = http.StatusInternalServerError

	out, err := execute(t, "", "--backend", srv.URL, "ask", "hello")
	require.Error(t, err)
	assert.Contains(t, out, exchange.AnswerErrorText)
	assert.Equal(t, ExitError, ExitCode(err))
}

func TestAskAnswerMatchingErrorTextSucceeds(t *testing.T) {
	isolate(t)
	_, srv := newFakeService(t, exchange.AnswerErrorText)

	out, err := execute(t, "", "--backend", srv.URL, "ask", "what does the log say?")
	require.NoError(t, err)
	assert.Contains(t, out, exchange.AnswerErrorText)
}

func TestAskBackendDown(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := execute(t, "", "--backend", url, "ask", "hello")
	require.Error(t, err)
	assert.Equal(t, ExitBackend, ExitCode(err))
}

func TestAskUsageErrors(t *testing.T) {
	isolate(t)

	_, err := execute(t, "", "ask")
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, "", "ask", "   ")
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, "", "ask", "--nope", "x")
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, "", "bogus")
	assert.Equal(t, ExitUsage, ExitCode(err))
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestUploadCommand(t *testing.T) {
	isolate(t)
	fs, srv := newFakeService(t, "")
	path := writePDF(t, "paper.pdf")

	out, err := execute(t, "", "--backend", srv.URL, "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, exchange.NoticeUploadOK)
	assert.Equal(t, []string{"upload"}, fs.callLog())
}

func TestUploadRejectsBadFile(t *testing.T) {
	isolate(t)
	fs, srv := newFakeService(t, "")

	notPDF := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notPDF, []byte("text"), 0o644))

	for _, path := range []string{notPDF, filepath.Join(t.TempDir(), "missing.pdf")} {
		_, err := execute(t, "", "--backend", srv.URL, "upload", path)
		require.Error(t, err)
		assert.Equal(t, ExitUsage, ExitCode(err))
	}
	assert.Empty(t, fs.callLog())
}

// =============================================================================
// CHAT
// =============================================================================

func TestChatPipedInput(t *testing.T) {
	isolate(t)
	fs, srv := newFakeService(t, "Paris.")
	path := writePDF(t, "paper.pdf")

	input := strings.Join([]string{
		"/upload",
		"/open " + path,
		"/upload",
		"   ",
		"capital?",
		"/history",
		"/quit",
		"never sent",
	}, "\n")

	out, err := execute(t, input, "--backend", srv.URL, "chat")
	require.NoError(t, err)

	assert.Contains(t, out, exchange.NoticeSelectDocument)
	assert.Contains(t, out, exchange.NoticeUploadOK)
	assert.Contains(t, out, "Paris.")
	assert.Contains(t, out, "1. You: capital?")
	assert.Contains(t, out, "2. Assistant: Paris.")
	assert.Equal(t, []string{"upload", "ask"}, fs.callLog())
}

func TestChatPipedLongLine(t *testing.T) {
	isolate(t)
	fs, srv := newFakeService(t, "Long indeed.")
	question := strings.Repeat("a", 200*1024)

	out, err := execute(t, question+"\n/quit\n", "--backend", srv.URL, "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "Long indeed.")

	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.Len(t, fs.questions, 1)
	assert.Len(t, fs.questions[0], len(question))
}

func TestChatExport(t *testing.T) {
	isolate(t)
	_, srv := newFakeService(t, "Paris.")
	target := filepath.Join(t.TempDir(), "conversation.json")

	out, err := execute(t, "capital?\n/export "+target+"\n", "--backend", srv.URL, "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Paris."`)
}

func TestREPLUnknownSlashIsQuestion(t *testing.T) {
	isolate(t)
	fs, srv := newFakeService(t, "ok")

	_, err := execute(t, "/etc/hosts?\n", "--backend", srv.URL, "chat")
	require.NoError(t, err)
	assert.Equal(t, []string{"/etc/hosts?"}, fs.questions)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), strings.TrimSpace(out))

	out, err = execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	_, err = execute(t, "", "config", "init")
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, "", "config", "init", "--force")
	require.NoError(t, err)

	out, err = execute(t, "", "--backend", "http://example.test:9000", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "http://example.test:9000")
}

func TestConfigInvalidBackend(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "--backend", "not a url", "config", "show")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pdfchat test")
}
