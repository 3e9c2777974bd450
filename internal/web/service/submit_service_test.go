package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"execdesk/internal/backend"
	"execdesk/internal/form"
	"execdesk/internal/testutil"
	"execdesk/internal/web/service"
)

type blockingSubmitter struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newBlockingSubmitter() *blockingSubmitter {
	return &blockingSubmitter{
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (b *blockingSubmitter) Submit(ctx context.Context, req backend.CreateRequest) (backend.CreateResponse, error) {
	b.calls.Add(1)
	b.entered <- struct{}{}
	<-b.release
	return backend.CreateResponse{Message: "queued " + req.Username}, nil
}

func validDraft(username string) form.Draft {
	return form.Draft{Username: username, Language: "Go (1.18.5)", SourceCode: "package main"}
}

func TestIdenticalConcurrentSubmissionsShareOneCall(t *testing.T) {
	sub := newBlockingSubmitter()
	svc := service.NewSubmitService(sub)

	var wg sync.WaitGroup
	results := make([]form.Result, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[0] = svc.Submit(context.Background(), validDraft("alice"))
	}()
	<-sub.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[1] = svc.Submit(context.Background(), validDraft("alice"))
	}()
	time.Sleep(50 * time.Millisecond)
	close(sub.release)
	wg.Wait()

	testutil.AssertEqual(t, sub.calls.Load(), int32(1))
	for _, res := range results {
		testutil.AssertTrue(t, res.OK(), "both callers see success")
		testutil.AssertEqual(t, res.Message, "queued alice")
	}
}

func TestDifferentDraftsAreSentSeparately(t *testing.T) {
	sub := newBlockingSubmitter()
	close(sub.release)
	svc := service.NewSubmitService(sub)

	_, first := svc.Submit(context.Background(), validDraft("alice"))
	_, second := svc.Submit(context.Background(), validDraft("bob"))

	testutil.AssertTrue(t, first.OK() && second.OK(), "both drafts accepted")
	testutil.AssertEqual(t, sub.calls.Load(), int32(2))
}

func TestInvalidDraftReturnsFormError(t *testing.T) {
	sub := newBlockingSubmitter()
	svc := service.NewSubmitService(sub)

	f, res := svc.Submit(context.Background(), form.Draft{Username: "alice"})
	testutil.AssertFalse(t, res.OK(), "missing fields rejected")
	testutil.AssertEqual(t, f.Error, "Please fill in all fields.")
	testutil.AssertEqual(t, f.Draft.Username, "alice")
	testutil.AssertEqual(t, sub.calls.Load(), int32(0))
}
