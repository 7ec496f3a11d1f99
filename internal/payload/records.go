package payload

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the validated incoming shape of one catalog product.
// ImportanceNums and Tags are nil when the source omitted them.
type Product struct {
	Presence
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	OnMain        bool
	Name          string
	ConnectorData *string

	Categories     []Category
	Colors         []Color
	ExcludedItems  []ExcludedItem
	Extras         []Extra
	Images         []Image
	ImportanceNums []ImportanceNum
	Marks          []ProductMark
	Parameters     []Parameter
	Reviews        []Review
	ReviewVideos   []ReviewVideo
	Tags           []TagRef
}

func (p *Product) decode(o *object) {
	requireValue(o, &p.ID, "id", "Product_ID")
	requireTime(o, &p.CreatedAt, "created_at", "Created_At")
	requireValue(o, &p.OnMain, "on_main", "OnMain")
	requireValue(o, &p.Name, "name", "Product_Name")
	optionalTime(o, &p.UpdatedAt, "updated_at", "Updated_At")
	optionalValue(o, &p.ConnectorData, "moysklad_connector_products_data")

	requireList(o, &p.Categories, "categories")
	requireList(o, &p.Colors, "colors")
	requireList(o, &p.ExcludedItems, "excluded")
	requireList(o, &p.Extras, "extras")
	requireList(o, &p.Images, "images")
	optionalList(o, &p.ImportanceNums, "importance_num")
	requireList(o, &p.Marks, "marks")
	requireList(o, &p.Parameters, "parameters")
	requireList(o, &p.Reviews, "reviews")
	requireList(o, &p.ReviewVideos, "reviews_video")
	p.Tags = decodeTags(o, "tags")
}

type Category struct {
	Presence
	ID        int64
	ImageURL  string
	Name      string
	SortOrder *int
}

func (c *Category) decode(o *object) {
	requireValue(o, &c.ID, "id", "Category_ID")
	requireURL(o, &c.ImageURL, "image_url", "Category_Image")
	requireValue(o, &c.Name, "name", "Category_Name")
	optionalValue(o, &c.SortOrder, "sort_order")
}

type ProductMark struct {
	Presence
	ID   int64
	Name string
}

func (m *ProductMark) decode(o *object) {
	requireValue(o, &m.ID, "id", "Mark_ID")
	requireValue(o, &m.Name, "name", "Mark_Name")
}

type Color struct {
	Presence
	ID        int64
	ProductID int64
	Code      string
	Name      string
	ImageURL  *string
	Discount  *int
	JSONData  *string
	SortOrder *int
}

func (c *Color) decode(o *object) {
	requireValue(o, &c.ID, "id", "Color_ID")
	requireValue(o, &c.Code, "code", "Color_Code")
	requireValue(o, &c.Name, "name", "Color_Name", "color")
	optionalURL(o, &c.ImageURL, "image_url", "Color_image")
	requireValue(o, &c.ProductID, "product_id", "Product_ID")
	optionalValue(o, &c.Discount, "discount")
	optionalValue(o, &c.JSONData, "json_data")
	optionalValue(o, &c.SortOrder, "sort_order")
}

type Extra struct {
	Presence
	ID              int64
	ProductID       int64
	Characteristics string
	Delivery        string
	Kit             string
	Offer           string
	AIDescription   *string
}

func (e *Extra) decode(o *object) {
	requireValue(o, &e.ID, "id", "Product_Extra_ID")
	requireValue(o, &e.ProductID, "product_id", "Product_ID")
	requireValue(o, &e.Characteristics, "characteristics", "Characteristics")
	requireValue(o, &e.Delivery, "delivery", "Delivery")
	requireValue(o, &e.Kit, "kit", "Kit")
	requireValue(o, &e.Offer, "offer", "Offer")
	optionalValue(o, &e.AIDescription, "ai_description")
}

type Image struct {
	Presence
	ID        int64
	ProductID int64
	ImageURL  string
	MainImage bool
	Position  *string
	SortOrder *int
	Title     *string
}

func (i *Image) decode(o *object) {
	requireValue(o, &i.ID, "id", "Image_ID")
	requireURL(o, &i.ImageURL, "image_url", "Image_URL")
	requireValue(o, &i.MainImage, "main_image", "MainImage")
	requireValue(o, &i.ProductID, "product_id", "Product_ID")
	optionalValue(o, &i.Position, "position")
	optionalValue(o, &i.SortOrder, "sort_order")
	optionalValue(o, &i.Title, "title")
}

type Parameter struct {
	Presence
	ID              int64
	Chosen          bool
	Disabled        bool
	ExtraFieldColor *string
	ExtraFieldImage *string
	Name            string
	OldPrice        *decimal.Decimal
	ParameterString string
	Price           decimal.Decimal
	SortOrder       *int
}

func (p *Parameter) decode(o *object) {
	requireValue(o, &p.ID, "id", "Parameter_ID")
	requireValue(o, &p.Chosen, "chosen")
	requireValue(o, &p.Disabled, "disabled")
	optionalValue(o, &p.ExtraFieldColor, "extra_field_color")
	optionalURL(o, &p.ExtraFieldImage, "extra_field_image")
	requireValue(o, &p.Name, "name")
	optionalValue(o, &p.OldPrice, "old_price")
	requireValue(o, &p.ParameterString, "parameter_string")
	requireValue(o, &p.Price, "price")
	optionalValue(o, &p.SortOrder, "sort_order")
}

type Review struct {
	Presence
	ID        int64
	ProductID int64
	ImageURL  string
	SortOrder *int
}

func (r *Review) decode(o *object) {
	requireValue(o, &r.ID, "id", "Photo_ID")
	requireURL(o, &r.ImageURL, "image_url", "Photo_URL")
	requireValue(o, &r.ProductID, "product_id", "Product_ID")
	optionalValue(o, &r.SortOrder, "sort_order")
}

type ReviewVideo struct {
	Presence
	ID        int64
	ProductID int64
	PosterURL *string
	VideoURL  string
	SortOrder *int
}

func (v *ReviewVideo) decode(o *object) {
	requireValue(o, &v.ID, "id", "Video_ID")
	optionalURL(o, &v.PosterURL, "poster_url", "Poster_URL")
	requireValue(o, &v.ProductID, "product_id", "Product_ID")
	requireURL(o, &v.VideoURL, "video_url", "Video_URL")
	optionalValue(o, &v.SortOrder, "sort_order")
}

// ExcludedItem requires an id, although upstream types it as nullable.
type ExcludedItem struct {
	Presence
	ID          int64
	ColorID     *int64
	ParameterID *int64
	ProductID   *int64
}

func (e *ExcludedItem) decode(o *object) {
	requireValue(o, &e.ID, "id")
	optionalValue(o, &e.ColorID, "color_id")
	optionalValue(o, &e.ParameterID, "parameter_id")
	optionalValue(o, &e.ProductID, "product_id")
}

type ImportanceNum struct {
	Presence
	ID         int64
	Importance *int
	ProductID  *int64
}

func (n *ImportanceNum) decode(o *object) {
	requireValue(o, &n.ID, "id")
	optionalValue(o, &n.Importance, "importance")
	optionalValue(o, &n.ProductID, "product_id")
}

// TagRef names a tag. Upstream sends bare strings; objects carrying an id
// are accepted but only the name is used for matching.
type TagRef struct {
	ID   *int64
	Name string
}

func decodeTags(o *object, name string) []TagRef {
	raw, ok := o.value(name, false, nil)
	if !ok {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		o.fail(name, raw, "invalid type: expected list")
		return nil
	}
	out := make([]TagRef, 0, len(elems))
	for i, elem := range elems {
		path := fmt.Sprintf("%s[%d]", o.fieldPath(name), i)
		var text string
		if err := json.Unmarshal(elem, &text); err == nil {
			if text == "" {
				o.errs.add(path, string(elem), "tag name must not be empty")
				continue
			}
			out = append(out, TagRef{Name: text})
			continue
		}
		child, ok := newObject(path, elem, o.errs)
		if !ok {
			continue
		}
		var ref TagRef
		optionalValue(child, &ref.ID, "id")
		requireValue(child, &ref.Name, "name")
		if ref.Name != "" {
			out = append(out, ref)
		}
	}
	return out
}
