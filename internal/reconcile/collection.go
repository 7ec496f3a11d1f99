package reconcile

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catalog-sync/internal/payload"
	"github.com/angelmondragon/catalog-sync/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Identity is the field incoming items are matched on.
type Identity string

const (
	IdentityID   Identity = "id"
	IdentityName Identity = "name"
)

// Ownership decides what unlinking an item does.
type Ownership string

const (
	// Owned rows belong to one product and are deleted when unlinked.
	Owned Ownership = "owned"
	// Shared rows are referenced through an association table; unlinking
	// removes the association only.
	Shared Ownership = "shared"
)

// collection is one entry of the collection table.
type collection interface {
	Name() string
	Identity() Identity
	Ownership() Ownership
	Sync(ctx context.Context, tx *gorm.DB, root *models.Product, in *payload.Product) (CollectionStats, error)
}

type syncEnv struct {
	logg *logger.Logger
}

func (e syncEnv) logChanged(ctx context.Context, name string, key any, changed []string) {
	if e.logg == nil || !e.logg.Enabled(ctx, zerolog.DebugLevel) {
		return
	}
	ctx = e.logg.WithFields(ctx, map[string]any{
		"collection": name,
		"identity":   key,
		"changed":    changed,
	})
	e.logg.Debug(ctx, "collection item updated")
}

func dbError(err error, name string, op string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", op, name)).
		WithDetails(map[string]any{"collection": name})
}

func contractError(name string, key any, msg string) error {
	return pkgerrors.New(pkgerrors.CodeContractViolation, fmt.Sprintf("%s: %s", name, msg)).
		WithDetails(map[string]any{"collection": name, "identity": key})
}

// ownedSpec syncs a 1:N collection keyed by the upstream numeric id.
type ownedSpec[M any, I any] struct {
	syncEnv
	name       string
	current    func(p *models.Product) *[]M
	incoming   func(in *payload.Product) []I
	modelID    func(m *M) int64
	incomingID func(i *I) int64
	parent     func(m *M) *int64
	build      func(productID int64, i *I) M
	merge      func(d *diff, m *M, i *I)
	presence   func(i *I) presence
}

func (s *ownedSpec[M, I]) Name() string         { return s.name }
func (s *ownedSpec[M, I]) Identity() Identity   { return IdentityID }
func (s *ownedSpec[M, I]) Ownership() Ownership { return Owned }

func (s *ownedSpec[M, I]) Sync(ctx context.Context, tx *gorm.DB, root *models.Product, in *payload.Product) (CollectionStats, error) {
	var stats CollectionStats
	incoming := s.incoming(in)
	if incoming == nil {
		return stats, nil
	}

	wanted := make(map[int64]struct{}, len(incoming))
	ids := make([]int64, 0, len(incoming))
	for i := range incoming {
		id := s.incomingID(&incoming[i])
		if _, dup := wanted[id]; dup {
			continue
		}
		wanted[id] = struct{}{}
		ids = append(ids, id)
	}

	current := s.current(root)
	index := make(map[int64]*M, len(*current))
	var orphans []int64
	for i := range *current {
		m := &(*current)[i]
		id := s.modelID(m)
		if _, keep := wanted[id]; keep {
			index[id] = m
			continue
		}
		orphans = append(orphans, id)
	}

	if len(orphans) > 0 {
		res := tx.Where("product_id = ? AND id IN ?", root.ID, orphans).Delete(new(M))
		if res.Error != nil {
			return stats, dbError(res.Error, s.name, "delete orphaned")
		}
		stats.Deleted += int(res.RowsAffected)
	}

	// Rows parented elsewhere are found globally and moved to this product.
	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		var found []M
		if err := tx.Where("id IN ?", missing).Find(&found).Error; err != nil {
			return stats, dbError(err, s.name, "look up")
		}
		for i := range found {
			index[s.modelID(&found[i])] = &found[i]
		}
	}

	for i := range incoming {
		item := &incoming[i]
		id := s.incomingID(item)
		if m, ok := index[id]; ok {
			d := newDiff(s.presence(item))
			s.merge(d, m, item)
			if p := s.parent(m); *p != root.ID {
				*p = root.ID
				d.mark("product_id")
			}
			if len(d.changed) > 0 {
				res := tx.Model(m).Select(d.changed).Updates(m)
				if res.Error != nil {
					return stats, dbError(res.Error, s.name, "update")
				}
				if res.RowsAffected == 0 {
					return stats, contractError(s.name, id, "matched row vanished before update")
				}
				stats.Updated++
				s.logChanged(ctx, s.name, id, d.changed)
			}
			continue
		}

		m := s.build(root.ID, item)
		if err := tx.Create(&m).Error; err != nil {
			return stats, dbError(err, s.name, "insert")
		}
		stats.Inserted++
		index[id] = &m
	}

	// Later duplicates merge into the indexed row, so the result is read
	// back from the index once every occurrence has been applied.
	result := make([]M, 0, len(ids))
	for _, id := range ids {
		result = append(result, *index[id])
	}
	*current = result
	return stats, nil
}

// sharedSpec syncs a many-to-many collection through its association table.
type sharedSpec[M any, I any, K comparable] struct {
	syncEnv
	name         string
	identity     Identity
	lookupColumn string
	joinColumn   string
	joinModel    func() any
	link         func(productID, childID int64) any
	current      func(p *models.Product) *[]M
	incoming     func(in *payload.Product) []I
	modelKey     func(m *M) K
	incomingKey  func(i *I) K
	modelID      func(m *M) int64
	build        func(i *I) M
	// merge is nil for collections whose rows carry nothing but their key.
	merge    func(d *diff, m *M, i *I)
	presence func(i *I) presence
}

func (s *sharedSpec[M, I, K]) Name() string         { return s.name }
func (s *sharedSpec[M, I, K]) Identity() Identity   { return s.identity }
func (s *sharedSpec[M, I, K]) Ownership() Ownership { return Shared }

func (s *sharedSpec[M, I, K]) Sync(ctx context.Context, tx *gorm.DB, root *models.Product, in *payload.Product) (CollectionStats, error) {
	var stats CollectionStats
	incoming := s.incoming(in)
	if incoming == nil {
		return stats, nil
	}

	wanted := make(map[K]struct{}, len(incoming))
	keys := make([]K, 0, len(incoming))
	for i := range incoming {
		k := s.incomingKey(&incoming[i])
		if _, dup := wanted[k]; dup {
			continue
		}
		wanted[k] = struct{}{}
		keys = append(keys, k)
	}

	current := s.current(root)
	linked := make(map[K]struct{}, len(*current))
	index := make(map[K]*M, len(keys))
	var unlink []int64
	for i := range *current {
		m := &(*current)[i]
		k := s.modelKey(m)
		if _, keep := wanted[k]; keep {
			index[k] = m
			linked[k] = struct{}{}
			continue
		}
		unlink = append(unlink, s.modelID(m))
	}

	if len(unlink) > 0 {
		res := tx.Where("product_id = ? AND "+s.joinColumn+" IN ?", root.ID, unlink).Delete(s.joinModel())
		if res.Error != nil {
			return stats, dbError(res.Error, s.name, "unlink")
		}
		stats.Unlinked += int(res.RowsAffected)
	}

	missing := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, ok := index[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		var found []M
		if err := tx.Where(s.lookupColumn+" IN ?", missing).Find(&found).Error; err != nil {
			return stats, dbError(err, s.name, "look up")
		}
		for i := range found {
			k := s.modelKey(&found[i])
			if _, asked := wanted[k]; !asked {
				return stats, contractError(s.name, k, "lookup returned an unrequested row")
			}
			index[k] = &found[i]
		}
	}

	for i := range incoming {
		item := &incoming[i]
		k := s.incomingKey(item)

		m, ok := index[k]
		if ok && s.merge != nil {
			d := newDiff(s.presence(item))
			s.merge(d, m, item)
			if len(d.changed) > 0 {
				res := tx.Model(m).Select(d.changed).Updates(m)
				if res.Error != nil {
					return stats, dbError(res.Error, s.name, "update")
				}
				if res.RowsAffected == 0 {
					return stats, contractError(s.name, k, "matched row vanished before update")
				}
				stats.Updated++
				s.logChanged(ctx, s.name, k, d.changed)
			}
		}
		if !ok {
			created := s.build(item)
			if err := tx.Create(&created).Error; err != nil {
				return stats, dbError(err, s.name, "insert")
			}
			if s.modelID(&created) == 0 {
				return stats, contractError(s.name, k, "insert yielded no identity")
			}
			stats.Inserted++
			m = &created
			index[k] = m
		}

		if _, done := linked[k]; !done {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(s.link(root.ID, s.modelID(m)))
			if res.Error != nil {
				return stats, dbError(res.Error, s.name, "link")
			}
			stats.Linked += int(res.RowsAffected)
			linked[k] = struct{}{}
		}
	}

	result := make([]M, 0, len(keys))
	for _, k := range keys {
		result = append(result, *index[k])
	}
	*current = result
	return stats, nil
}
