package catalogsync

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/catalog-sync/internal/payload"
	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	body     []byte
	err      error
	variants []payload.Variant
}

func (s *stubFetcher) Fetch(_ context.Context, variant payload.Variant) ([]byte, error) {
	s.variants = append(s.variants, variant)
	return s.body, s.err
}

type recordingApplier struct {
	roots []payload.Root
	err   error
}

func (r *recordingApplier) ApplyBatch(_ context.Context, root payload.Root) (Summary, error) {
	r.roots = append(r.roots, root)
	if r.err != nil {
		return Summary{}, r.err
	}
	return Summary{Variant: root.Variant(), Products: len(root.Items())}, nil
}

const onMainDoc = `{
	"status": "ok",
	"products": [],
	"categories": [{"id": 5, "image_url": "https://cdn.example.com/c5.png", "name": "Living"}],
	"product_marks": [{"id": 2, "name": "Hit"}]
}`

func TestJobFetchesParsesAndApplies(t *testing.T) {
	f := &stubFetcher{body: []byte(onMainDoc)}
	a := &recordingApplier{}
	job, err := NewJob(JobParams{Logger: logger.Nop(), Fetcher: f, Updater: a, Variant: payload.VariantOnMain})
	require.NoError(t, err)
	require.Equal(t, "catalog-sync-on-main", job.Name())

	require.NoError(t, job.Run(context.Background()))
	require.Equal(t, []payload.Variant{payload.VariantOnMain}, f.variants)
	require.Len(t, a.roots, 1)
	onMain, ok := a.roots[0].(*payload.OnMainCatalog)
	require.True(t, ok)
	require.Len(t, onMain.Categories, 1)
}

func TestJobStopsOnInvalidPayload(t *testing.T) {
	f := &stubFetcher{body: []byte(`{"status": "ok"}`)}
	a := &recordingApplier{}
	job, err := NewJob(JobParams{Logger: logger.Nop(), Fetcher: f, Updater: a, Variant: payload.VariantDefault})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Empty(t, a.roots)
}

func TestJobPropagatesFetchAndApplyErrors(t *testing.T) {
	fetchErr := pkgerrors.New(pkgerrors.CodeDependency, "upstream down")
	job, err := NewJob(JobParams{Logger: logger.Nop(), Fetcher: &stubFetcher{err: fetchErr}, Updater: &recordingApplier{}, Variant: payload.VariantDefault})
	require.NoError(t, err)
	require.ErrorIs(t, job.Run(context.Background()), fetchErr)

	applyErr := errors.New("db gone")
	job, err = NewJob(JobParams{
		Logger:  logger.Nop(),
		Fetcher: &stubFetcher{body: []byte(`{"status": "ok", "products": []}`)},
		Updater: &recordingApplier{err: applyErr},
		Variant: payload.VariantDefault,
	})
	require.NoError(t, err)
	require.ErrorIs(t, job.Run(context.Background()), applyErr)
}

func TestNewJobsBuildsBothVariants(t *testing.T) {
	jobs, err := NewJobs(logger.Nop(), &stubFetcher{}, &recordingApplier{})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	require.Equal(t, "catalog-sync-on-main", jobs[0].Name())
	require.Equal(t, "catalog-sync-default", jobs[1].Name())
}

func TestNewJobRejectsUnknownVariant(t *testing.T) {
	_, err := NewJob(JobParams{Logger: logger.Nop(), Fetcher: &stubFetcher{}, Updater: &recordingApplier{}, Variant: "weekly"})
	require.Error(t, err)
}
