package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(sink RecordSink, opts ServiceOptions) *Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return testToday }
	}
	return NewService(StaticReference{Dataset: testReference()}, sink, opts)
}

var serviceFile = testFile(
	"Acme Ltda;Ana Silva;;Maria;;;;;;;",
	"Gamma;Ana Silva;;Pedro;;;;;;;",
)

func TestService_PreviewThenCommit(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(sink, ServiceOptions{})
	ctx := context.Background()

	info, err := svc.StartPreview(ctx, "roster.csv", serviceFile)
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "roster.csv", info.FileName)
	assert.Equal(t, 1, info.Summary.SuccessCount)
	assert.Len(t, info.Outcomes, 2)
	assert.Equal(t, info.CreatedAt.Add(DefaultPreviewTTL), info.ExpiresAt)
	assert.Equal(t, 1, svc.PendingCount())
	assert.Empty(t, sink.batches, "preview has no side effects")

	got, err := svc.GetPreview(info.ID, false)
	require.NoError(t, err)
	assert.Equal(t, info.Summary, got.Summary)
	assert.Nil(t, got.Outcomes)

	res, err := svc.CommitPreview(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Inserted)
	assert.Equal(t, info.ID, res.PreviewID)
	require.Len(t, sink.batches, 1)
	assert.Equal(t, "Maria", sink.batches[0][0].Name)

	_, err = svc.CommitPreview(ctx, info.ID)
	assert.ErrorIs(t, err, ErrPreviewNotFound, "a preview commits once")
	assert.Equal(t, 0, svc.PendingCount())
}

func TestService_CommitFailureKeepsPreview(t *testing.T) {
	sink := &fakeSink{err: errors.New("connection refused")}
	svc := newTestService(sink, ServiceOptions{})
	ctx := context.Background()

	info, err := svc.StartPreview(ctx, "roster.csv", serviceFile)
	require.NoError(t, err)

	_, err = svc.CommitPreview(ctx, info.ID)
	require.Error(t, err)
	assert.Equal(t, "DB004", MapError(err).Code)

	_, err = svc.GetPreview(info.ID, true)
	require.NoError(t, err, "preview is restored after a failed commit")

	sink.err = nil
	res, err := svc.CommitPreview(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Inserted)
}

func TestService_NothingToCommitKeepsPreview(t *testing.T) {
	svc := newTestService(&fakeSink{}, ServiceOptions{})
	ctx := context.Background()

	info, err := svc.StartPreview(ctx, "bad.csv", testFile("Gamma;Ana Silva;;Pedro;;;;;;;"))
	require.NoError(t, err)
	assert.Equal(t, 0, info.Summary.SuccessCount)

	_, err = svc.CommitPreview(ctx, info.ID)
	assert.ErrorIs(t, err, ErrNothingToCommit)
	assert.Equal(t, 1, svc.PendingCount())
}

func TestService_Discard(t *testing.T) {
	svc := newTestService(&fakeSink{}, ServiceOptions{})

	info, err := svc.StartPreview(context.Background(), "roster.csv", serviceFile)
	require.NoError(t, err)

	assert.True(t, svc.DiscardPreview(info.ID))
	assert.False(t, svc.DiscardPreview(info.ID))

	_, err = svc.GetPreview(info.ID, false)
	assert.ErrorIs(t, err, ErrPreviewNotFound)
}

func TestService_PreviewExpires(t *testing.T) {
	svc := newTestService(&fakeSink{}, ServiceOptions{PreviewTTL: 20 * time.Millisecond})

	info, err := svc.StartPreview(context.Background(), "roster.csv", serviceFile)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := svc.GetPreview(info.ID, false)
		return errors.Is(err, ErrPreviewNotFound)
	}, time.Second, 10*time.Millisecond)
}

func TestService_FileErrorStoresNothing(t *testing.T) {
	svc := newTestService(&fakeSink{}, ServiceOptions{})

	_, err := svc.StartPreview(context.Background(), "empty.csv", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Equal(t, 0, svc.PendingCount())
	assert.Equal(t, 0, svc.LimiterStatus().Active, "slot released after failure")
}

func TestService_ReferenceUnavailable(t *testing.T) {
	svc := NewService(StaticReference{}, &fakeSink{}, ServiceOptions{})

	_, err := svc.StartPreview(context.Background(), "roster.csv", serviceFile)
	assert.ErrorIs(t, err, ErrNoReference)
	assert.Equal(t, "IMP003", MapError(err).Code)
}

func TestService_Busy(t *testing.T) {
	svc := newTestService(&fakeSink{}, ServiceOptions{MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})
	require.NoError(t, svc.limiter.Acquire(context.Background()))
	defer svc.limiter.Release()

	_, err := svc.StartPreview(context.Background(), "roster.csv", serviceFile)
	assert.ErrorIs(t, err, ErrTooManyImports)
	assert.Equal(t, "UPL002", MapError(err).Code)
}

func TestService_WaitForImports(t *testing.T) {
	svc := newTestService(&fakeSink{}, ServiceOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, svc.WaitForImports(ctx))
}
