package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"execdesk/internal/backend"
	"execdesk/internal/form"
	"execdesk/pkg/utils/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SubmitService sends form drafts to the backend. Identical drafts that arrive
// while one is still outstanding share that single backend call.
type SubmitService struct {
	submitter form.Submitter
	group     singleflight.Group
}

func NewSubmitService(submitter form.Submitter) *SubmitService {
	return &SubmitService{submitter: submitter}
}

// Submit runs one form submission for draft and returns the form state to render.
func (s *SubmitService) Submit(ctx context.Context, draft form.Draft) (*form.Form, form.Result) {
	f := form.New(sharedSubmitter{s})
	f.Draft = draft
	return f, f.Submit(ctx)
}

type sharedSubmitter struct {
	s *SubmitService
}

func (p sharedSubmitter) Submit(ctx context.Context, req backend.CreateRequest) (backend.CreateResponse, error) {
	key := draftKey(req)
	v, err, shared := p.s.group.Do(key, func() (interface{}, error) {
		// The call outlives a single disconnecting client since others may wait on it.
		return p.s.submitter.Submit(context.WithoutCancel(ctx), req)
	})
	if shared {
		logger.Info(ctx, "duplicate submission collapsed", zap.String("key", key[:12]))
	}
	if err != nil {
		return backend.CreateResponse{}, err
	}
	return v.(backend.CreateResponse), nil
}

func draftKey(req backend.CreateRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
