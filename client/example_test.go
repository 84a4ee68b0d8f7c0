package client_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adamwoolhether/teamcity/client"
)

func ExampleBuild() {
	c, err := client.Build(
		client.WithTimeout(10*time.Second),
		client.WithUserAgent("example/1.0"),
		client.WithHeader("Accept", "application/json"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = c
	fmt.Println("client built")
	// Output: client built
}

func ExampleURL() {
	u := client.URL("http", "localhost:8111", "/app/rest/server/version")

	fmt.Println(u.String())
	// Output: http://localhost:8111/app/rest/server/version
}

func ExampleRequest() {
	req, err := client.Request(context.Background(), "http://localhost:8111/app/rest/builds/id:42/tags", http.MethodPost,
		client.WithBody([]byte("release")),
		client.WithContentType("text/plain"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(req.Method, req.URL.Path, req.Header.Get("Content-Type"))
	// Output: POST /app/rest/builds/id:42/tags text/plain
}

func ExampleClient_Send() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such build type", http.StatusNotFound)
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	req, _ := c.Request(context.Background(), ts.URL, http.MethodGet)

	resp, err := c.Send(req)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(resp.StatusCode)
	fmt.Print(string(body))
	// Output:
	// 404
	// no such build type
}

func ExampleClient_Download() {
	body := []byte("file contents")
	sum := sha256.Sum256(body)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	req, _ := client.Request(context.Background(), ts.URL, http.MethodGet)

	dest := filepath.Join(os.TempDir(), "teamcity-example-dl.bin")
	defer os.Remove(dest)

	if err := c.Download(req, http.StatusOK, dest, client.WithChecksum(sha256.New(), hex.EncodeToString(sum[:]))); err != nil {
		fmt.Println("error:", err)
		return
	}

	data, _ := os.ReadFile(dest)
	fmt.Println(string(data))
	// Output: file contents
}

func ExampleWithNoFollowRedirects() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/login.html", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c, _ := client.Build(
		client.WithNoFollowRedirects(),
		client.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	req, _ := client.Request(context.Background(), ts.URL, http.MethodGet)

	resp, err := c.Send(req)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(resp.StatusCode, resp.Header.Get("Location"))
	// Output: 302 /login.html
}

func ExampleWithThrottle() {
	c, err := client.Build(client.WithThrottle(10, 5))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = c
	fmt.Println("ok")
	// Output: ok
}
