package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"edulearn-cli/internal/domain"
	"edulearn-cli/internal/kv"
	"edulearn-cli/internal/kv/memory"
)

func TestBearerTokenInjectedFromStore(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer server.Close()

	store := memory.NewStore()
	_ = store.Set(context.Background(), kv.KeyAccessToken, "tok-abc")

	client := NewClient(server.URL, nil, store)
	if _, _, err := client.ListQuizzes(context.Background(), 0, 0); err != nil {
		t.Fatalf("list quizzes: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	if _, err := client.GetQuiz(context.Background(), 1); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if gotID == "" {
		t.Fatalf("expected X-Request-ID to be set")
	}
}

func TestErrorCarriesServerFieldErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"validation failed","errors":{"title":"required"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	_, err := client.CreateQuiz(context.Background(), QuizUpload{})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "validation failed" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if apiErr.Fields["title"] != "required" {
		t.Fatalf("expected field error for title, got %v", apiErr.Fields)
	}
}

func TestNotFoundMapsToQuizSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such quiz"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	_, err := client.GetQuiz(context.Background(), 99)
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestCourseUploadSwitchesToMultipartWithBanner(t *testing.T) {
	var contentType, bannerName, gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(10 << 20); err == nil {
			gotTitle = r.FormValue("title")
			if _, header, err := r.FormFile("banner"); err == nil {
				bannerName = header.Filename
			}
		}
		w.Write([]byte(`{"id":1,"title":"Go Basics"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	upload := CourseUpload{
		Fields: map[string]string{"title": "Go Basics", "slug": "go-basics"},
		Banner: &FileAttachment{Field: "banner", Name: "banner.png", Content: []byte{1, 2, 3}},
	}
	course, err := client.CreateCourse(context.Background(), upload)
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		t.Fatalf("expected multipart content type, got %q", contentType)
	}
	if gotTitle != "Go Basics" || bannerName != "banner.png" {
		t.Fatalf("multipart fields not merged: title=%q banner=%q", gotTitle, bannerName)
	}
	if course.ID != 1 {
		t.Fatalf("unexpected course: %+v", course)
	}
}

func TestCourseUploadUsesJSONWithoutBanner(t *testing.T) {
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":2}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	if _, err := client.CreateCourse(context.Background(), CourseUpload{Fields: map[string]string{"title": "x"}}); err != nil {
		t.Fatalf("create course: %v", err)
	}
	if contentType != "application/json" {
		t.Fatalf("expected JSON content type, got %q", contentType)
	}
}

func TestLeaderboardTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, &http.Client{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// The outer context is shorter than the client ceiling; either way the
	// caller must see the timeout sentinel, not a raw transport error.
	_, err := client.GetLeaderboard(ctx, 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, domain.ErrLeaderboardTimeout) && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}
