package catalogsync

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/catalog-sync/internal/payload"
	"github.com/angelmondragon/catalog-sync/internal/reconcile"
	"github.com/angelmondragon/catalog-sync/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"github.com/angelmondragon/catalog-sync/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productReconciler interface {
	Reconcile(ctx context.Context, tx *gorm.DB, in payload.Product) (*models.Product, reconcile.Stats, error)
}

// UpdaterParams configure the batch updater.
type UpdaterParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Reconciler productReconciler
	Metrics    *metrics.SyncMetrics
}

// Updater applies a validated catalog document to the database.
type Updater struct {
	logg       *logger.Logger
	db         txRunner
	reconciler productReconciler
	metrics    *metrics.SyncMetrics
	now        func() time.Time
}

// Summary describes one applied batch.
type Summary struct {
	Variant  payload.Variant `json:"variant"`
	Products int             `json:"products"`
	Stats    reconcile.Stats `json:"stats"`
	Duration time.Duration   `json:"duration"`
}

func NewUpdater(params UpdaterParams) (*Updater, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	return &Updater{
		logg:       params.Logger,
		db:         params.DB,
		reconciler: params.Reconciler,
		metrics:    params.Metrics,
		now:        time.Now,
	}, nil
}

// ApplyBatch reconciles every product of root inside one transaction. Any
// failure rolls back the whole batch.
func (u *Updater) ApplyBatch(ctx context.Context, root payload.Root) (Summary, error) {
	var summary Summary
	err := u.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		summary, err = u.ApplyBatchTx(ctx, tx, root)
		return err
	})
	if err != nil {
		return Summary{}, err
	}
	u.record(summary)
	return summary, nil
}

// ApplyBatchTx reconciles root using the caller's transaction. Committing or
// rolling back is left to the caller.
func (u *Updater) ApplyBatchTx(ctx context.Context, tx *gorm.DB, root payload.Root) (Summary, error) {
	if root == nil {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "catalog document required")
	}
	started := u.now()
	summary := Summary{Variant: root.Variant()}
	ctx = u.logg.WithField(ctx, "variant", string(root.Variant()))

	items := root.Items()
	for i := range items {
		_, stats, err := u.reconciler.Reconcile(ctx, tx, items[i])
		if err != nil {
			return Summary{}, pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "apply catalog batch").WithDetails(map[string]any{
				"variant":    string(root.Variant()),
				"product_id": items[i].ID,
				"position":   i,
			})
		}
		summary.Stats.Merge(stats)
		summary.Products++
	}
	summary.Duration = u.now().Sub(started)

	logCtx := u.logg.WithFields(ctx, map[string]any{
		"products":    summary.Products,
		"created":     summary.Stats.Created,
		"updated":     summary.Stats.Updated,
		"writes":      summary.Stats.Writes(),
		"duration_ms": summary.Duration.Milliseconds(),
	})
	u.logg.Info(logCtx, "catalog batch applied")
	return summary, nil
}

func (u *Updater) record(summary Summary) {
	if u.metrics == nil {
		return
	}
	u.metrics.AddProducts(string(summary.Variant), summary.Products)
	for _, name := range summary.Stats.Names() {
		c := summary.Stats.Collections[name]
		u.metrics.AddRows(name, metrics.ActionInserted, c.Inserted)
		u.metrics.AddRows(name, metrics.ActionUpdated, c.Updated)
		u.metrics.AddRows(name, metrics.ActionDeleted, c.Deleted)
		u.metrics.AddRows(name, metrics.ActionLinked, c.Linked)
		u.metrics.AddRows(name, metrics.ActionUnlinked, c.Unlinked)
	}
	u.metrics.AddRows("products", metrics.ActionInserted, summary.Stats.Created)
	u.metrics.AddRows("products", metrics.ActionUpdated, summary.Stats.Updated)
}
