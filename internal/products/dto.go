package product

import (
	"time"

	"github.com/angelmondragon/catalog-sync/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the read view of a product; tags render as {id, name}.
type ProductDTO struct {
	ID            int64      `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	OnMain        bool       `json:"on_main"`
	Name          string     `json:"name"`
	ConnectorData *string    `json:"moysklad_connector_products_data"`

	Categories    []CategoryDTO      `json:"categories"`
	Colors        []ColorDTO         `json:"colors"`
	Excluded      []ExcludedItemDTO  `json:"excluded"`
	Extras        []ExtraDTO         `json:"extras"`
	Images        []ImageDTO         `json:"images"`
	ImportanceNum []ImportanceNumDTO `json:"importance_num"`
	Marks         []MarkDTO          `json:"marks"`
	Parameters    []ParameterDTO     `json:"parameters"`
	Reviews       []ReviewDTO        `json:"reviews"`
	ReviewsVideo  []ReviewVideoDTO   `json:"reviews_video"`
	Tags          []TagDTO           `json:"tags"`
}

type CategoryDTO struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	Name      string `json:"name"`
	SortOrder *int   `json:"sort_order"`
}

type ColorDTO struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	ImageURL  *string `json:"image_url"`
	Discount  *int    `json:"discount"`
	JSONData  *string `json:"json_data"`
	SortOrder *int    `json:"sort_order"`
}

type ExcludedItemDTO struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ColorID     *int64 `json:"color_id"`
	ParameterID *int64 `json:"parameter_id"`
}

type ExtraDTO struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"product_id"`
	Characteristics string  `json:"characteristics"`
	Delivery        string  `json:"delivery"`
	Kit             string  `json:"kit"`
	Offer           string  `json:"offer"`
	AIDescription   *string `json:"ai_description"`
}

type ImageDTO struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	ImageURL  string  `json:"image_url"`
	MainImage bool    `json:"main_image"`
	Position  *string `json:"position"`
	SortOrder *int    `json:"sort_order"`
	Title     *string `json:"title"`
}

type ImportanceNumDTO struct {
	ID         int64 `json:"id"`
	ProductID  int64 `json:"product_id"`
	Importance *int  `json:"importance"`
}

type MarkDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ParameterDTO renders prices as JSON numbers.
type ParameterDTO struct {
	ID              int64            `json:"id"`
	ProductID       int64            `json:"product_id"`
	Chosen          bool             `json:"chosen"`
	Disabled        bool             `json:"disabled"`
	ExtraFieldColor *string          `json:"extra_field_color"`
	ExtraFieldImage *string          `json:"extra_field_image"`
	Name            string           `json:"name"`
	OldPrice        *decimal.Decimal `json:"old_price"`
	ParameterString string           `json:"parameter_string"`
	Price           decimal.Decimal  `json:"price"`
	SortOrder       *int             `json:"sort_order"`
}

type ReviewDTO struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	ImageURL  string `json:"image_url"`
	SortOrder *int   `json:"sort_order"`
}

type ReviewVideoDTO struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	PosterURL *string `json:"poster_url"`
	VideoURL  *string `json:"video_url"`
	SortOrder *int    `json:"sort_order"`
}

type TagDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductListResult is one page of the info endpoint.
type ProductListResult struct {
	Products []ProductDTO `json:"products"`
	Page     int          `json:"page"`
	Count    int          `json:"count"`
}

// NewProductDTO maps a fully preloaded product to its read view.
func NewProductDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt,
		OnMain:        p.OnMain,
		Name:          p.Name,
		ConnectorData: p.ConnectorData,
		Categories:    make([]CategoryDTO, 0, len(p.Categories)),
		Colors:        make([]ColorDTO, 0, len(p.Colors)),
		Excluded:      make([]ExcludedItemDTO, 0, len(p.ExcludedItems)),
		Extras:        make([]ExtraDTO, 0, len(p.Extras)),
		Images:        make([]ImageDTO, 0, len(p.Images)),
		ImportanceNum: make([]ImportanceNumDTO, 0, len(p.ImportanceNums)),
		Marks:         make([]MarkDTO, 0, len(p.Marks)),
		Parameters:    make([]ParameterDTO, 0, len(p.Parameters)),
		Reviews:       make([]ReviewDTO, 0, len(p.Reviews)),
		ReviewsVideo:  make([]ReviewVideoDTO, 0, len(p.ReviewVideos)),
		Tags:          make([]TagDTO, 0, len(p.Tags)),
	}
	for _, c := range p.Categories {
		dto.Categories = append(dto.Categories, CategoryDTO{ID: c.ID, ImageURL: c.ImageURL, Name: c.Name, SortOrder: c.SortOrder})
	}
	for _, c := range p.Colors {
		dto.Colors = append(dto.Colors, ColorDTO{
			ID: c.ID, ProductID: c.ProductID, Code: c.Code, Name: c.Name,
			ImageURL: c.ImageURL, Discount: c.Discount, JSONData: c.JSONData, SortOrder: c.SortOrder,
		})
	}
	for _, e := range p.ExcludedItems {
		dto.Excluded = append(dto.Excluded, ExcludedItemDTO{ID: e.ID, ProductID: e.ProductID, ColorID: e.ColorID, ParameterID: e.ParameterID})
	}
	for _, e := range p.Extras {
		dto.Extras = append(dto.Extras, ExtraDTO{
			ID: e.ID, ProductID: e.ProductID, Characteristics: e.Characteristics,
			Delivery: e.Delivery, Kit: e.Kit, Offer: e.Offer, AIDescription: e.AIDescription,
		})
	}
	for _, i := range p.Images {
		dto.Images = append(dto.Images, ImageDTO{
			ID: i.ID, ProductID: i.ProductID, ImageURL: i.ImageURL, MainImage: i.MainImage,
			Position: i.Position, SortOrder: i.SortOrder, Title: i.Title,
		})
	}
	for _, n := range p.ImportanceNums {
		dto.ImportanceNum = append(dto.ImportanceNum, ImportanceNumDTO{ID: n.ID, ProductID: n.ProductID, Importance: n.Importance})
	}
	for _, m := range p.Marks {
		dto.Marks = append(dto.Marks, MarkDTO{ID: m.ID, Name: m.Name})
	}
	for _, pr := range p.Parameters {
		var oldPrice *decimal.Decimal
		if pr.OldPrice.Valid {
			v := pr.OldPrice.Decimal
			oldPrice = &v
		}
		dto.Parameters = append(dto.Parameters, ParameterDTO{
			ID: pr.ID, ProductID: pr.ProductID, Chosen: pr.Chosen, Disabled: pr.Disabled,
			ExtraFieldColor: pr.ExtraFieldColor, ExtraFieldImage: pr.ExtraFieldImage,
			Name: pr.Name, OldPrice: oldPrice, ParameterString: pr.ParameterString,
			Price: pr.Price, SortOrder: pr.SortOrder,
		})
	}
	for _, r := range p.Reviews {
		dto.Reviews = append(dto.Reviews, ReviewDTO{ID: r.ID, ProductID: r.ProductID, ImageURL: r.ImageURL, SortOrder: r.SortOrder})
	}
	for _, v := range p.ReviewVideos {
		dto.ReviewsVideo = append(dto.ReviewsVideo, ReviewVideoDTO{
			ID: v.ID, ProductID: v.ProductID, PosterURL: v.PosterURL, VideoURL: v.VideoURL, SortOrder: v.SortOrder,
		})
	}
	for _, t := range p.Tags {
		dto.Tags = append(dto.Tags, TagDTO{ID: t.ID, Name: t.Name})
	}
	return dto
}
