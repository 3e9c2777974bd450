package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"execdesk/internal/backend"
	"execdesk/internal/testutil"
	"execdesk/pkg/errors"
)

func TestSubmitSendsSnakeCaseBody(t *testing.T) {
	var calls int
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		testutil.AssertEqual(t, r.Method, http.MethodPost)
		testutil.AssertEqual(t, r.URL.Path, "/submit")
		data, _ := io.ReadAll(r.Body)
		testutil.MustUnmarshalJSON(t, data, &body)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	client := backend.New(srv.URL+"/", time.Second)
	resp, err := client.Submit(context.Background(), backend.CreateRequest{
		Username:   "alice",
		Language:   "Python (3.11.2)",
		SourceCode: "print(1)",
		Stdin:      "",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	testutil.AssertEqual(t, resp.Message, "ok")
	testutil.AssertEqual(t, calls, 1)
	testutil.AssertEqual(t, body["source_code"], "print(1)")
	_, camel := body["sourceCode"]
	testutil.AssertFalse(t, camel, "sourceCode must not be sent")
	stdin, ok := body["stdin"]
	testutil.AssertTrue(t, ok, "stdin is always sent")
	testutil.AssertEqual(t, stdin, "")
}

func TestListSubmissionsNormalizesWireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, "/submissions")
		_, _ = w.Write([]byte(`{"result":[
			{"id":7,"username":"alice","languages":"Go (1.18.5)","stdin":null,"source_code":"package main","output":"hi\n","stderr":null,"created_at":"2024-03-01T10:20:30.123Z"},
			{"id":"b-2","username":"bob","languages":"Bash (5.0.0)","source_code":"echo","created_at":"yesterday"}
		]}`))
	}))
	defer srv.Close()

	subs, err := backend.New(srv.URL, time.Second).ListSubmissions(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	first := subs[0]
	testutil.AssertEqual(t, first.ID, "7")
	testutil.AssertEqual(t, first.Language, "Go (1.18.5)")
	testutil.AssertEqual(t, first.Stdin, "")
	testutil.AssertEqual(t, first.Stderr, "")
	testutil.AssertEqual(t, first.Output, "hi\n")
	testutil.AssertEqual(t, first.CreatedAt.Year(), 2024)
	testutil.AssertEqual(t, first.CreatedAtRaw, "")

	second := subs[1]
	testutil.AssertEqual(t, second.ID, "b-2")
	testutil.AssertEqual(t, second.Output, "")
	testutil.AssertTrue(t, second.CreatedAt.IsZero(), "unparseable timestamp stays zero")
	testutil.AssertEqual(t, second.CreatedAtRaw, "yesterday")
}

func TestListSubmissionsNullResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":null}`))
	}))
	defer srv.Close()

	subs, err := backend.New(srv.URL, time.Second).ListSubmissions(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	testutil.AssertEqual(t, len(subs), 0)
}

func TestNonSuccessStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	_, err := backend.New(srv.URL, time.Second).Submit(context.Background(), backend.CreateRequest{Username: "a"})
	if err == nil {
		t.Fatal("expected error")
	}
	custom := errors.GetError(err)
	testutil.AssertEqual(t, custom.Code, errors.BackendRequestFailed)
	testutil.AssertEqual(t, custom.Details["status"], http.StatusInternalServerError)
	testutil.AssertTrue(t, custom.Code.IsTransport(), "status failures are transport errors")
}

func TestMalformedBodyIsInvalidFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := backend.New(srv.URL, time.Second).ListSubmissions(context.Background())
	testutil.AssertTrue(t, errors.Is(err, errors.InvalidFormat), "expected InvalidFormat")
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := backend.New(url, time.Second).ListSubmissions(context.Background())
	testutil.AssertTrue(t, errors.Is(err, errors.BackendUnavailable), "expected BackendUnavailable")
}

func TestTimeoutIsReported(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := backend.New(srv.URL, 20*time.Millisecond).ListSubmissions(context.Background())
	testutil.AssertTrue(t, errors.Is(err, errors.Timeout), "expected Timeout")
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": []interface{}{}})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := backend.New(srv.URL, time.Second).ListSubmissions(ctx)
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
	testutil.AssertTrue(t, errors.GetCode(err).IsTransport(), "cancellation surfaces as a transport error")
}

func TestSetters(t *testing.T) {
	client := backend.New("", 0)
	testutil.AssertEqual(t, client.BaseURL(), backend.DefaultBaseURL)
	testutil.AssertEqual(t, client.Timeout(), backend.DefaultTimeout)

	client.SetBaseURL("http://127.0.0.1:9000/")
	client.SetTimeout(0)
	testutil.AssertEqual(t, client.BaseURL(), "http://127.0.0.1:9000")
	testutil.AssertEqual(t, client.Timeout(), backend.DefaultTimeout)
}
