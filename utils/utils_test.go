package utils_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/adamwoolhether/teamcity/client"
	"github.com/adamwoolhether/teamcity/client/download"
	"github.com/adamwoolhether/teamcity/utils"
)

const sessionCookie = "TCSESSIONID"

// server is a fake TeamCity with a guest login and one artifact.
type server struct {
	*httptest.Server

	mu          sync.Mutex
	guestPosts  int
	guestStatus int
	cookieSeen  string
	artifact    []byte
	artStatus   int
	artGets     int
}

func newServer(t *testing.T, opts ...func(*server)) *server {
	t.Helper()

	s := &server{guestStatus: http.StatusOK, artStatus: http.StatusOK}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /guestAuth/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.guestPosts++
		if s.guestStatus == http.StatusOK {
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "guest-session", Path: "/"})
		}
		w.WriteHeader(s.guestStatus)
	})
	mux.HandleFunc("GET /app/rest/builds/{locator}/artifacts/content/{name...}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.artGets++
		if c, err := r.Cookie(sessionCookie); err == nil {
			s.cookieSeen = c.Value
		}
		if s.artStatus != http.StatusOK {
			http.Error(w, "artifact not found", s.artStatus)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(s.artifact)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(s.artifact)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

func (s *server) posts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guestPosts
}

func (s *server) artifactGets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artGets
}

func (s *server) cookie() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookieSeen
}

func quiet() utils.Option {
	return utils.WithClientOptions(client.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestNew_GuestAuthOnce(t *testing.T) {
	s := newServer(t)

	u, err := utils.New(t.Context(), s.URL, quiet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := u.GuestAuthErr(); err != nil {
		t.Errorf("exp nil guest auth error, got: %v", err)
	}
	if s.posts() != 1 {
		t.Errorf("exp exactly one guest auth POST, got %d", s.posts())
	}
}

func TestNew_GuestAuthRejected(t *testing.T) {
	s := newServer(t, func(s *server) { s.guestStatus = http.StatusUnauthorized })

	u, err := utils.New(t.Context(), s.URL, quiet())
	if err != nil {
		t.Fatalf("exp construction to succeed, got: %v", err)
	}

	err = u.GuestAuthErr()

	var statusErr *client.UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("exp *UnexpectedStatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("exp 401, got %d", statusErr.StatusCode)
	}
	if !errors.Is(err, client.ErrAuthFailure) {
		t.Error("exp ErrAuthFailure for 401")
	}
}

func TestNew_RequireGuestAuth(t *testing.T) {
	s := newServer(t, func(s *server) { s.guestStatus = http.StatusForbidden })

	_, err := utils.New(t.Context(), s.URL, quiet(), utils.WithRequireGuestAuth())
	if !errors.Is(err, client.ErrAuthFailure) {
		t.Fatalf("exp ErrAuthFailure, got: %v", err)
	}
	if s.posts() != 1 {
		t.Errorf("exp exactly one guest auth POST, got %d", s.posts())
	}
}

func TestNew_TransportError(t *testing.T) {
	s := newServer(t)
	addr := s.URL
	s.Close()

	if _, err := utils.New(t.Context(), addr, quiet()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := utils.New(t.Context(), "not a url", quiet()); err == nil {
		t.Fatal("expected url error")
	}
}

func TestSaveArtifact_WritesIdenticalFile(t *testing.T) {
	artifact := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef, 0x00}, 3*download.DefaultChunkSize/5+77)
	s := newServer(t, func(s *server) { s.artifact = artifact })

	t.Chdir(t.TempDir())

	u, err := utils.New(t.Context(), s.URL, quiet())
	if err != nil {
		t.Fatal(err)
	}

	if err := u.SaveArtifact(t.Context(), "42", "bundle.tar.gz"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile("bundle.tar.gz")
	if err != nil {
		t.Fatalf("reading saved artifact: %v", err)
	}
	if !bytes.Equal(got, artifact) {
		t.Errorf("saved file differs: got %d bytes, want %d", len(got), len(artifact))
	}

	if got := s.cookie(); got != "guest-session" {
		t.Errorf("exp guest session cookie on artifact request, got %q", got)
	}
}

func TestSaveArtifact_NotFound(t *testing.T) {
	s := newServer(t, func(s *server) { s.artStatus = http.StatusNotFound })

	dir := t.TempDir()
	t.Chdir(dir)

	u, err := utils.New(t.Context(), s.URL, quiet())
	if err != nil {
		t.Fatal(err)
	}

	err = u.SaveArtifact(t.Context(), "42", "missing.zip")

	var statusErr *client.UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("exp *UnexpectedStatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("exp 404, got %d", statusErr.StatusCode)
	}
	if !errors.Is(err, client.ErrUnexpectedStatusCode) {
		t.Error("exp ErrUnexpectedStatusCode")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("exp no files after a failed status, found %d", len(entries))
	}
}

func TestSaveArtifact_SkipExisting(t *testing.T) {
	s := newServer(t, func(s *server) { s.artifact = bytes.Repeat([]byte("b"), 8<<20) })

	t.Chdir(t.TempDir())
	if err := os.WriteFile("big.bin", []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}

	u, err := utils.New(t.Context(), s.URL, quiet())
	if err != nil {
		t.Fatal(err)
	}

	if err := u.SaveArtifact(t.Context(), "1", "big.bin", download.WithSkipExisting()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.artifactGets(); got != 0 {
		t.Errorf("exp no artifact GET for an existing file, got %d", got)
	}

	got, _ := os.ReadFile("big.bin")
	if string(got) != "cached" {
		t.Errorf("exp existing file untouched, got %d bytes", len(got))
	}
}

func TestSaveArtifact_MissingDirectory(t *testing.T) {
	s := newServer(t, func(s *server) { s.artifact = []byte("log line\n") })

	t.Chdir(t.TempDir())

	u, err := utils.New(t.Context(), s.URL, quiet())
	if err != nil {
		t.Fatal(err)
	}

	err = u.SaveArtifact(t.Context(), "42", "logs/build.log")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("exp os.ErrNotExist for a missing directory, got: %v", err)
	}
}

func TestSaveArtifactTo_Checksum(t *testing.T) {
	notes := []byte("release notes")
	sum := sha256.Sum256(notes)
	s := newServer(t, func(s *server) { s.artifact = notes })

	u, err := utils.New(t.Context(), s.URL, quiet())
	if err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "notes.txt")

	testCases := map[string]struct {
		checksum string
		err      error
	}{
		"match":    {checksum: hex.EncodeToString(sum[:])},
		"mismatch": {checksum: hex.EncodeToString(make([]byte, sha256.Size)), err: download.ErrChecksumMismatch},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := u.SaveArtifactTo(t.Context(), "42", "notes.txt", dest, download.WithChecksum(sha256.New(), tc.checksum))
			if !errors.Is(err, tc.err) {
				t.Fatalf("exp err %v, got: %v", tc.err, err)
			}
		})
	}
}
