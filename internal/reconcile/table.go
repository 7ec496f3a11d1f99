package reconcile

import (
	"fmt"

	"github.com/angelmondragon/catalog-sync/internal/payload"
	"github.com/angelmondragon/catalog-sync/pkg/db/models"
)

// collectionTable lists every nested collection of a product in sync order.
func collectionTable(env syncEnv) []collection {
	return []collection{
		&sharedSpec[models.Category, payload.Category, int64]{
			syncEnv:      env,
			name:         "categories",
			identity:     IdentityID,
			lookupColumn: "id",
			joinColumn:   "category_id",
			joinModel:    func() any { return &models.ProductCategory{} },
			link: func(productID, childID int64) any {
				return &models.ProductCategory{ProductID: productID, CategoryID: childID}
			},
			current:     func(p *models.Product) *[]models.Category { return &p.Categories },
			incoming:    func(in *payload.Product) []payload.Category { return in.Categories },
			modelKey:    func(m *models.Category) int64 { return m.ID },
			incomingKey: func(i *payload.Category) int64 { return i.ID },
			modelID:     func(m *models.Category) int64 { return m.ID },
			build: func(i *payload.Category) models.Category {
				return models.Category{ID: i.ID, ImageURL: i.ImageURL, Name: i.Name, SortOrder: clonePtr(i.SortOrder)}
			},
			merge: func(d *diff, m *models.Category, i *payload.Category) {
				set(d, "image_url", &m.ImageURL, i.ImageURL)
				set(d, "name", &m.Name, i.Name)
				setPtr(d, "sort_order", &m.SortOrder, i.SortOrder)
			},
			presence: func(i *payload.Category) presence { return i.Presence },
		},
		&ownedSpec[models.Color, payload.Color]{
			syncEnv:    env,
			name:       "colors",
			current:    func(p *models.Product) *[]models.Color { return &p.Colors },
			incoming:   func(in *payload.Product) []payload.Color { return in.Colors },
			modelID:    func(m *models.Color) int64 { return m.ID },
			incomingID: func(i *payload.Color) int64 { return i.ID },
			parent:     func(m *models.Color) *int64 { return &m.ProductID },
			build: func(productID int64, i *payload.Color) models.Color {
				return models.Color{
					ID:        i.ID,
					ProductID: productID,
					Code:      i.Code,
					Name:      i.Name,
					ImageURL:  clonePtr(i.ImageURL),
					Discount:  clonePtr(i.Discount),
					JSONData:  clonePtr(i.JSONData),
					SortOrder: clonePtr(i.SortOrder),
				}
			},
			merge: func(d *diff, m *models.Color, i *payload.Color) {
				set(d, "code", &m.Code, i.Code)
				set(d, "name", &m.Name, i.Name)
				setPtr(d, "image_url", &m.ImageURL, i.ImageURL)
				setPtr(d, "discount", &m.Discount, i.Discount)
				setPtr(d, "json_data", &m.JSONData, i.JSONData)
				setPtr(d, "sort_order", &m.SortOrder, i.SortOrder)
			},
			presence: func(i *payload.Color) presence { return i.Presence },
		},
		&ownedSpec[models.ExcludedItem, payload.ExcludedItem]{
			syncEnv:    env,
			name:       "excluded",
			current:    func(p *models.Product) *[]models.ExcludedItem { return &p.ExcludedItems },
			incoming:   func(in *payload.Product) []payload.ExcludedItem { return in.ExcludedItems },
			modelID:    func(m *models.ExcludedItem) int64 { return m.ID },
			incomingID: func(i *payload.ExcludedItem) int64 { return i.ID },
			parent:     func(m *models.ExcludedItem) *int64 { return &m.ProductID },
			build: func(productID int64, i *payload.ExcludedItem) models.ExcludedItem {
				return models.ExcludedItem{
					ID:          i.ID,
					ProductID:   productID,
					ColorID:     clonePtr(i.ColorID),
					ParameterID: clonePtr(i.ParameterID),
				}
			},
			merge: func(d *diff, m *models.ExcludedItem, i *payload.ExcludedItem) {
				setPtr(d, "color_id", &m.ColorID, i.ColorID)
				setPtr(d, "parameter_id", &m.ParameterID, i.ParameterID)
			},
			presence: func(i *payload.ExcludedItem) presence { return i.Presence },
		},
		&ownedSpec[models.Extra, payload.Extra]{
			syncEnv:    env,
			name:       "extras",
			current:    func(p *models.Product) *[]models.Extra { return &p.Extras },
			incoming:   func(in *payload.Product) []payload.Extra { return in.Extras },
			modelID:    func(m *models.Extra) int64 { return m.ID },
			incomingID: func(i *payload.Extra) int64 { return i.ID },
			parent:     func(m *models.Extra) *int64 { return &m.ProductID },
			build: func(productID int64, i *payload.Extra) models.Extra {
				return models.Extra{
					ID:              i.ID,
					ProductID:       productID,
					Characteristics: i.Characteristics,
					Delivery:        i.Delivery,
					Kit:             i.Kit,
					Offer:           i.Offer,
					AIDescription:   clonePtr(i.AIDescription),
				}
			},
			merge: func(d *diff, m *models.Extra, i *payload.Extra) {
				set(d, "characteristics", &m.Characteristics, i.Characteristics)
				set(d, "delivery", &m.Delivery, i.Delivery)
				set(d, "kit", &m.Kit, i.Kit)
				set(d, "offer", &m.Offer, i.Offer)
				setPtr(d, "ai_description", &m.AIDescription, i.AIDescription)
			},
			presence: func(i *payload.Extra) presence { return i.Presence },
		},
		&ownedSpec[models.Image, payload.Image]{
			syncEnv:    env,
			name:       "images",
			current:    func(p *models.Product) *[]models.Image { return &p.Images },
			incoming:   func(in *payload.Product) []payload.Image { return in.Images },
			modelID:    func(m *models.Image) int64 { return m.ID },
			incomingID: func(i *payload.Image) int64 { return i.ID },
			parent:     func(m *models.Image) *int64 { return &m.ProductID },
			build: func(productID int64, i *payload.Image) models.Image {
				return models.Image{
					ID:        i.ID,
					ProductID: productID,
					ImageURL:  i.ImageURL,
					MainImage: i.MainImage,
					Position:  clonePtr(i.Position),
					SortOrder: clonePtr(i.SortOrder),
					Title:     clonePtr(i.Title),
				}
			},
			merge: func(d *diff, m *models.Image, i *payload.Image) {
				set(d, "image_url", &m.ImageURL, i.ImageURL)
				set(d, "main_image", &m.MainImage, i.MainImage)
				setPtr(d, "position", &m.Position, i.Position)
				setPtr(d, "sort_order", &m.SortOrder, i.SortOrder)
				setPtr(d, "title", &m.Title, i.Title)
			},
			presence: func(i *payload.Image) presence { return i.Presence },
		},
		&ownedSpec[models.ImportanceNum, payload.ImportanceNum]{
			syncEnv:    env,
			name:       "importance_num",
			current:    func(p *models.Product) *[]models.ImportanceNum { return &p.ImportanceNums },
			incoming:   func(in *payload.Product) []payload.ImportanceNum { return in.ImportanceNums },
			modelID:    func(m *models.ImportanceNum) int64 { return m.ID },
			incomingID: func(i *payload.ImportanceNum) int64 { return i.ID },
			parent:     func(m *models.ImportanceNum) *int64 { return &m.ProductID },
			build: func(productID int64, i *payload.ImportanceNum) models.ImportanceNum {
				return models.ImportanceNum{ID: i.ID, ProductID: productID, Importance: clonePtr(i.Importance)}
			},
			merge: func(d *diff, m *models.ImportanceNum, i *payload.ImportanceNum) {
				setPtr(d, "importance", &m.Importance, i.Importance)
			},
			presence: func(i *payload.ImportanceNum) presence { return i.Presence },
		},
		&sharedSpec[models.ProductMark, payload.ProductMark, int64]{
			syncEnv:      env,
			name:         "marks",
			identity:     IdentityID,
			lookupColumn: "id",
			joinColumn:   "mark_id",
			joinModel:    func() any { return &models.ProductMarkLink{} },
			link: func(productID, childID int64) any {
				return &models.ProductMarkLink{ProductID: productID, MarkID: childID}
			},
			current:     func(p *models.Product) *[]models.ProductMark { return &p.Marks },
			incoming:    func(in *payload.Product) []payload.ProductMark { return in.Marks },
			modelKey:    func(m *models.ProductMark) int64 { return m.ID },
			incomingKey: func(i *payload.ProductMark) int64 { return i.ID },
			modelID:     func(m *models.ProductMark) int64 { return m.ID },
			build: func(i *payload.ProductMark) models.ProductMark {
				return models.ProductMark{ID: i.ID, Name: i.Name}
			},
			merge: func(d *diff, m *models.ProductMark, i *payload.ProductMark) {
				set(d, "name", &m.Name, i.Name)
			},
			presence: func(i *payload.ProductMark) presence { return i.Presence },
		},
		&ownedSpec[models.Parameter, payload.Parameter]{
			syncEnv:    env,
			name:       "parameters",
			current:    func(p *models.Product) *[]models.Parameter { return &p.Parameters },
			incoming:   func(in *payload.Product) []payload.Parameter { return in.Parameters },
			modelID:    func(m *models.Parameter) int64 { return m.ID },
			incomingID: func(i *payload.Parameter) int64 { return i.ID },
			parent:     func(m *models.Parameter) *int64 { return &m.ProductID },
			build: func(productID int64, i *payload.Parameter) models.Parameter {
				return models.Parameter{
					ID:              i.ID,
					ProductID:       productID,
					Chosen:          i.Chosen,
					Disabled:        i.Disabled,
					ExtraFieldColor: clonePtr(i.ExtraFieldColor),
					ExtraFieldImage: clonePtr(i.ExtraFieldImage),
					Name:            i.Name,
					OldPrice:        nullDecimal(i.OldPrice),
					ParameterString: i.ParameterString,
					Price:           i.Price,
					SortOrder:       clonePtr(i.SortOrder),
				}
			},
			merge: func(d *diff, m *models.Parameter, i *payload.Parameter) {
				set(d, "chosen", &m.Chosen, i.Chosen)
				set(d, "disabled", &m.Disabled, i.Disabled)
				setPtr(d, "extra_field_color", &m.ExtraFieldColor, i.ExtraFieldColor)
				setPtr(d, "extra_field_image", &m.ExtraFieldImage, i.ExtraFieldImage)
				set(d, "name", &m.Name, i.Name)
				setNullDecimal(d, "old_price", &m.OldPrice, i.OldPrice)
				set(d, "parameter_string", &m.ParameterString, i.ParameterString)
				setDecimal(d, "price", &m.Price, i.Price)
				setPtr(d, "sort_order", &m.SortOrder, i.SortOrder)
			},
			presence: func(i *payload.Parameter) presence { return i.Presence },
		},
		&ownedSpec[models.Review, payload.Review]{
			syncEnv:    env,
			name:       "reviews",
			current:    func(p *models.Product) *[]models.Review { return &p.Reviews },
			incoming:   func(in *payload.Product) []payload.Review { return in.Reviews },
			modelID:    func(m *models.Review) int64 { return m.ID },
			incomingID: func(i *payload.Review) int64 { return i.ID },
			parent:     func(m *models.Review) *int64 { return &m.ProductID },
			build: func(productID int64, i *payload.Review) models.Review {
				return models.Review{ID: i.ID, ProductID: productID, ImageURL: i.ImageURL, SortOrder: clonePtr(i.SortOrder)}
			},
			merge: func(d *diff, m *models.Review, i *payload.Review) {
				set(d, "image_url", &m.ImageURL, i.ImageURL)
				setPtr(d, "sort_order", &m.SortOrder, i.SortOrder)
			},
			presence: func(i *payload.Review) presence { return i.Presence },
		},
		&ownedSpec[models.ReviewVideo, payload.ReviewVideo]{
			syncEnv:    env,
			name:       "reviews_video",
			current:    func(p *models.Product) *[]models.ReviewVideo { return &p.ReviewVideos },
			incoming:   func(in *payload.Product) []payload.ReviewVideo { return in.ReviewVideos },
			modelID:    func(m *models.ReviewVideo) int64 { return m.ID },
			incomingID: func(i *payload.ReviewVideo) int64 { return i.ID },
			parent:     func(m *models.ReviewVideo) *int64 { return &m.ProductID },
			build: func(productID int64, i *payload.ReviewVideo) models.ReviewVideo {
				video := i.VideoURL
				return models.ReviewVideo{
					ID:        i.ID,
					ProductID: productID,
					PosterURL: clonePtr(i.PosterURL),
					VideoURL:  &video,
					SortOrder: clonePtr(i.SortOrder),
				}
			},
			merge: func(d *diff, m *models.ReviewVideo, i *payload.ReviewVideo) {
				setPtr(d, "poster_url", &m.PosterURL, i.PosterURL)
				setRequiredPtr(d, "video_url", &m.VideoURL, i.VideoURL)
				setPtr(d, "sort_order", &m.SortOrder, i.SortOrder)
			},
			presence: func(i *payload.ReviewVideo) presence { return i.Presence },
		},
		&sharedSpec[models.Tag, payload.TagRef, string]{
			syncEnv:      env,
			name:         "tags",
			identity:     IdentityName,
			lookupColumn: "name",
			joinColumn:   "tag_id",
			joinModel:    func() any { return &models.ProductTag{} },
			link: func(productID, childID int64) any {
				return &models.ProductTag{ProductID: productID, TagID: childID}
			},
			current:     func(p *models.Product) *[]models.Tag { return &p.Tags },
			incoming:    func(in *payload.Product) []payload.TagRef { return in.Tags },
			modelKey:    func(m *models.Tag) string { return m.Name },
			incomingKey: func(i *payload.TagRef) string { return i.Name },
			modelID:     func(m *models.Tag) int64 { return m.ID },
			build: func(i *payload.TagRef) models.Tag {
				return models.Tag{Name: i.Name}
			},
		},
	}
}

// validateTable rejects collection tables that break the sync contract.
func validateTable(table []collection) error {
	seen := make(map[string]struct{}, len(table))
	for _, c := range table {
		if _, dup := seen[c.Name()]; dup {
			return fmt.Errorf("collection %q registered twice", c.Name())
		}
		seen[c.Name()] = struct{}{}
		if c.Ownership() == Owned && c.Identity() != IdentityID {
			return fmt.Errorf("owned collection %q must match by id", c.Name())
		}
	}
	return nil
}
