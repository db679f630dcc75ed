package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasbasham/cli-runtime/iooption"
)

// fakeStack runs an issuer and a storage endpoint. Files named in reject get a
// 500 from the issuer; any other code than "party2026" gets a 401.
type fakeStack struct {
	issuer  *httptest.Server
	storage *httptest.Server

	mu     sync.Mutex
	stored map[string]string
	reject map[string]bool
}

func newFakeStack(t *testing.T) *fakeStack {
	t.Helper()
	fs := &fakeStack{stored: map[string]string{}, reject: map[string]bool{}}

	fs.storage = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		fs.mu.Lock()
		fs.stored[strings.TrimPrefix(r.URL.Path, "/")] = r.Header.Get("Content-Type") + ":" + string(b)
		fs.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(fs.storage.Close)

	fs.issuer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FileName, ContentType, EventCode string
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case req.EventCode != "party2026":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"Invalid event code"}`)
		case fs.reject[req.FileName]:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"Failed to generate valid upload URL"}`)
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{
				"url": fs.storage.URL + "/" + req.FileName,
				"key": "tess60/" + req.FileName,
			})
		}
	}))
	t.Cleanup(fs.issuer.Close)

	return fs
}

func mediaFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte("bytes of "+name), 0o600))
	}
	return paths
}

func runUpload(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommandWithArgs(NewDropOptions(iooption.IOStreams{
		In:     strings.NewReader(""),
		Out:    &out,
		ErrOut: &errOut,
	}))
	root.SetArgs(append([]string{"upload"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestUploadCommand_Success(t *testing.T) {
	fs := newFakeStack(t)
	paths := mediaFiles(t, "a.jpg", "b.png")

	out, err := runUpload(t, "--server", fs.issuer.URL, "--code", "party2026", paths[0], paths[1])
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg:bytes of a.jpg", fs.stored["a.jpg"])
	assert.Equal(t, "image/png:bytes of b.png", fs.stored["b.png"])
	assert.Contains(t, out, "[1/2] a.jpg done")
	assert.Contains(t, out, "[2/2] b.png done")
	assert.Contains(t, out, "All uploads complete")
}

func TestUploadCommand_BadCodeStopsBatch(t *testing.T) {
	fs := newFakeStack(t)
	paths := mediaFiles(t, "a.jpg", "b.png")

	out, err := runUpload(t, "--server", fs.issuer.URL, "--code", "nope", paths[0], paths[1])
	require.EqualError(t, err, "Invalid event code")

	assert.Empty(t, fs.stored)
	assert.Contains(t, out, "[1/2] a.jpg failed: Invalid event code")
	assert.NotContains(t, out, "b.png uploading")
}

func TestUploadCommand_PartialFailure(t *testing.T) {
	fs := newFakeStack(t)
	fs.reject["b.png"] = true
	paths := mediaFiles(t, "a.jpg", "b.png", "c.gif")

	out, err := runUpload(t, "--server", fs.issuer.URL, "--code", "party2026", paths...)
	require.EqualError(t, err, "Upload completed with 1 error(s) and 2 successful upload(s)")

	assert.Len(t, fs.stored, 2)
	assert.Contains(t, out, "[2/3] b.png failed: Failed to generate valid upload URL")
	assert.Contains(t, out, "[3/3] c.gif done")
}

func TestUploadCommand_RejectsSelection(t *testing.T) {
	fs := newFakeStack(t)

	_, err := runUpload(t, "--server", fs.issuer.URL, "--code", "party2026")
	assert.EqualError(t, err, "Please select your photos or videos to share")

	paths := mediaFiles(t, "a.jpg", "notes.txt")
	_, err = runUpload(t, "--server", fs.issuer.URL, "--code", "party2026", paths...)
	assert.EqualError(t, err, "Invalid file type(s): notes.txt. Only images and videos are allowed.")

	_, err = runUpload(t, "--server", fs.issuer.URL, "--code", "", paths[0])
	assert.ErrorContains(t, err, "No event code provided")
	assert.Empty(t, fs.stored)
}
