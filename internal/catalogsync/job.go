package catalogsync

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catalog-sync/internal/payload"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
)

type fetcher interface {
	Fetch(ctx context.Context, variant payload.Variant) ([]byte, error)
}

type batchApplier interface {
	ApplyBatch(ctx context.Context, root payload.Root) (Summary, error)
}

// JobParams configure one catalog sync job.
type JobParams struct {
	Logger  *logger.Logger
	Fetcher fetcher
	Updater batchApplier
	Variant payload.Variant
}

// Job fetches one upstream feed, validates it and applies it as a batch.
type Job struct {
	logg    *logger.Logger
	fetcher fetcher
	updater batchApplier
	variant payload.Variant
}

func NewJob(params JobParams) (*Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("fetcher required")
	}
	if params.Updater == nil {
		return nil, fmt.Errorf("updater required")
	}
	if !params.Variant.Valid() {
		return nil, fmt.Errorf("unknown catalog variant %q", params.Variant)
	}
	return &Job{
		logg:    params.Logger,
		fetcher: params.Fetcher,
		updater: params.Updater,
		variant: params.Variant,
	}, nil
}

// NewJobs builds the on-main and default jobs, in that order.
func NewJobs(logg *logger.Logger, f fetcher, u batchApplier) ([]*Job, error) {
	var jobs []*Job
	for _, variant := range []payload.Variant{payload.VariantOnMain, payload.VariantDefault} {
		job, err := NewJob(JobParams{Logger: logg, Fetcher: f, Updater: u, Variant: variant})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (j *Job) Name() string {
	if j.variant.OnMain() {
		return "catalog-sync-on-main"
	}
	return "catalog-sync-default"
}

func (j *Job) Run(ctx context.Context) error {
	body, err := j.fetcher.Fetch(ctx, j.variant)
	if err != nil {
		return err
	}
	root, err := payload.Parse(j.variant, body)
	if err != nil {
		if fields := payload.FieldErrors(err); len(fields) > 0 {
			j.logg.Warn(j.logg.WithFields(ctx, map[string]any{
				"invalid_fields": len(fields),
				"first_error":    fields[0].String(),
			}), "catalog payload rejected")
		}
		return err
	}
	summary, err := j.updater.ApplyBatch(ctx, root)
	if err != nil {
		return err
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"products": summary.Products,
		"writes":   summary.Stats.Writes(),
	}), "catalog sync finished")
	return nil
}
