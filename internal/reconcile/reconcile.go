package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/catalog-sync/internal/payload"
	"github.com/angelmondragon/catalog-sync/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReconcilerParams wires the reconciler's collaborators.
type ReconcilerParams struct {
	Logger *logger.Logger
}

// Reconciler merges one incoming product into persisted state.
type Reconciler struct {
	logg        *logger.Logger
	collections []collection
}

// NewReconciler builds a reconciler over the full collection table.
func NewReconciler(params ReconcilerParams) (*Reconciler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	table := collectionTable(syncEnv{logg: params.Logger})
	if err := validateTable(table); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeContractViolation, err, "invalid collection table")
	}
	return &Reconciler{logg: params.Logger, collections: table}, nil
}

// Collections returns the collection names in sync order.
func (r *Reconciler) Collections() []string {
	names := make([]string, 0, len(r.collections))
	for _, c := range r.collections {
		names = append(names, c.Name())
	}
	return names
}

// Reconcile finds or creates the product identified by in.ID and converges
// every nested collection to the incoming snapshot. All reads and writes go
// through tx.
func (r *Reconciler) Reconcile(ctx context.Context, tx *gorm.DB, in payload.Product) (*models.Product, Stats, error) {
	stats := Stats{Products: 1}
	if tx == nil {
		return nil, stats, pkgerrors.New(pkgerrors.CodeContractViolation, "reconcile requires a transaction")
	}
	tx = tx.WithContext(ctx)
	ctx = r.logg.WithProductID(ctx, in.ID)

	root, found, err := loadProduct(tx, in.ID)
	if err != nil {
		return nil, stats, err
	}

	if !found {
		root = newProduct(&in)
		if err := tx.Omit(clause.Associations).Create(root).Error; err != nil {
			return nil, stats, dbError(err, "products", "insert")
		}
		stats.Created++
	} else {
		d := newDiff(in.Presence)
		mergeProduct(d, root, &in)
		if len(d.changed) > 0 {
			res := tx.Model(root).Select(d.changed).Updates(root)
			if res.Error != nil {
				return nil, stats, dbError(res.Error, "products", "update")
			}
			if res.RowsAffected == 0 {
				return nil, stats, contractError("products", in.ID, "matched row vanished before update")
			}
			stats.Updated++
			r.logg.Debug(r.logg.WithField(ctx, "changed", d.changed), "product scalars updated")
		}
	}

	for _, c := range r.collections {
		cs, err := c.Sync(ctx, tx, root, &in)
		if err != nil {
			return nil, stats, wrapCollection(err, c, in.ID)
		}
		stats.record(c.Name(), cs)
	}

	logCtx := r.logg.WithFields(ctx, map[string]any{
		"created": stats.Created > 0,
		"writes":  stats.Writes(),
	})
	r.logg.Info(logCtx, "product reconciled")
	return root, stats, nil
}

func loadProduct(tx *gorm.DB, id int64) (*models.Product, bool, error) {
	q := tx
	for _, rel := range models.Relations {
		q = q.Preload(rel)
	}
	var product models.Product
	err := q.Where("id = ?", id).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, dbError(err, "products", "load")
	}
	return &product, true, nil
}

func newProduct(in *payload.Product) *models.Product {
	return &models.Product{
		ID:            in.ID,
		CreatedAt:     in.CreatedAt,
		UpdatedAt:     clonePtr(in.UpdatedAt),
		Name:          in.Name,
		OnMain:        in.OnMain,
		ConnectorData: clonePtr(in.ConnectorData),
	}
}

func mergeProduct(d *diff, m *models.Product, in *payload.Product) {
	setTime(d, "created_at", &m.CreatedAt, in.CreatedAt)
	setTimePtr(d, "updated_at", &m.UpdatedAt, in.UpdatedAt)
	set(d, "name", &m.Name, in.Name)
	set(d, "on_main", &m.OnMain, in.OnMain)
	setPtr(d, "moysklad_connector_products_data", &m.ConnectorData, in.ConnectorData)
}

// wrapCollection adds product context to a collection failure, keeping the
// original code.
func wrapCollection(err error, c collection, productID int64) error {
	code := pkgerrors.CodeOf(err)
	return pkgerrors.Wrap(code, err, fmt.Sprintf("sync %s", c.Name())).WithDetails(map[string]any{
		"product_id": productID,
		"collection": c.Name(),
		"identity":   string(c.Identity()),
		"ownership":  string(c.Ownership()),
	})
}
