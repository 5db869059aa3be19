package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/google/uuid"
)

// DefaultPreviewTTL is how long an uncommitted preview is kept.
const DefaultPreviewTTL = 30 * time.Minute

// ServiceOptions configures a Service. Zero values take defaults.
type ServiceOptions struct {
	MaxConcurrent int
	MaxWait       time.Duration
	PreviewTTL    time.Duration
	Delimiter     rune
	Now           func() time.Time
}

// Service keeps previews between the preview and commit phases.
type Service struct {
	refs     ReferenceSource
	sink     RecordSink
	importer *Importer
	limiter  *ImportLimiter
	ttl      time.Duration

	mu       sync.RWMutex
	previews map[string]*pendingImport
}

type pendingImport struct {
	id        string
	fileName  string
	createdAt time.Time
	preview   *Preview
	timer     *time.Timer
}

// PreviewInfo describes a pending preview.
type PreviewInfo struct {
	ID        string        `json:"id"`
	FileName  string        `json:"fileName"`
	CreatedAt time.Time     `json:"createdAt"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Summary   ImportSummary `json:"summary"`
	Outcomes  []RowOutcome  `json:"outcomes,omitempty"`
}

// CommitResult reports a finished commit.
type CommitResult struct {
	PreviewID string        `json:"previewId"`
	FileName  string        `json:"fileName"`
	Inserted  int64         `json:"inserted"`
	Duration  time.Duration `json:"durationNs"`
}

// NewService creates a Service reading references from refs and committing
// into sink.
func NewService(refs ReferenceSource, sink RecordSink, opts ServiceOptions) *Service {
	ttl := opts.PreviewTTL
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	return &Service{
		refs:     refs,
		sink:     sink,
		importer: &Importer{Delimiter: opts.Delimiter, Now: opts.Now},
		limiter:  NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		ttl:      ttl,
		previews: make(map[string]*pendingImport),
	}
}

// StartPreview runs phase one for an uploaded file and keeps the result
// until it is committed, discarded or expires.
func (s *Service) StartPreview(ctx context.Context, fileName string, data []byte) (*PreviewInfo, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ref, err := s.refs.LoadReference(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}

	preview, err := s.importer.Preview(ctx, data, ref)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", fileName, err)
	}

	p := &pendingImport{
		id:        uuid.New().String(),
		fileName:  fileName,
		createdAt: time.Now(),
		preview:   preview,
	}

	s.mu.Lock()
	s.previews[p.id] = p
	p.timer = time.AfterFunc(s.ttl, func() { s.expire(p.id) })
	s.mu.Unlock()

	logging.WithFields(ctx, "preview_id", p.id, "file", fileName).Info("preview stored",
		"accepted", preview.Summary.SuccessCount,
		"rejected", preview.Summary.ErrorRows,
	)

	return s.info(p, true), nil
}

// GetPreview returns a pending preview. withOutcomes controls whether the
// per-row outcomes are included.
func (s *Service) GetPreview(id string, withOutcomes bool) (*PreviewInfo, error) {
	s.mu.RLock()
	p, ok := s.previews[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrPreviewNotFound
	}
	return s.info(p, withOutcomes), nil
}

// CommitPreview runs phase two: the accepted records of the preview are
// handed to the sink as one batch. A preview commits at most once; if the
// sink fails, the preview stays available for another attempt.
func (s *Service) CommitPreview(ctx context.Context, id string) (*CommitResult, error) {
	start := time.Now()

	s.mu.Lock()
	p, ok := s.previews[id]
	if ok {
		delete(s.previews, id)
		p.timer.Stop()
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrPreviewNotFound
	}

	inserted, err := Commit(ctx, p.preview, s.sink)
	if err != nil {
		s.restore(p)
		return nil, err
	}

	return &CommitResult{
		PreviewID: p.id,
		FileName:  p.fileName,
		Inserted:  inserted,
		Duration:  time.Since(start),
	}, nil
}

// DiscardPreview drops a pending preview and reports whether it existed.
func (s *Service) DiscardPreview(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.previews[id]
	if ok {
		p.timer.Stop()
		delete(s.previews, id)
	}
	return ok
}

// PendingCount returns the number of stored previews.
func (s *Service) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}

// LimiterStatus returns the state of the preview limiter.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running previews finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) restore(p *pendingImport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews[p.id] = p
	p.timer = time.AfterFunc(s.ttl, func() { s.expire(p.id) })
}

func (s *Service) expire(id string) {
	if s.DiscardPreview(id) {
		logging.WithFields(context.Background(), "preview_id", id).Debug("preview expired")
	}
}

func (s *Service) info(p *pendingImport, withOutcomes bool) *PreviewInfo {
	info := &PreviewInfo{
		ID:        p.id,
		FileName:  p.fileName,
		CreatedAt: p.createdAt,
		ExpiresAt: p.createdAt.Add(s.ttl),
		Summary:   p.preview.Summary,
	}
	if withOutcomes {
		info.Outcomes = p.preview.Outcomes
	}
	return info
}
