package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
)

// Variant selects the upstream feed and its root document shape.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantOnMain  Variant = "on_main"
)

// OnMain reports the value of the upstream on_main query flag.
func (v Variant) OnMain() bool {
	return v == VariantOnMain
}

func (v Variant) Valid() bool {
	return v == VariantDefault || v == VariantOnMain
}

// Root is a validated catalog document of either shape.
type Root interface {
	Variant() Variant
	Items() []Product
}

// Catalog is the default document: a status and a product list.
type Catalog struct {
	Status   string
	Products []Product
}

func (c *Catalog) Variant() Variant { return VariantDefault }
func (c *Catalog) Items() []Product { return c.Products }

func (c *Catalog) decode(o *object) {
	requireValue(o, &c.Status, "status")
	requireList(o, &c.Products, "products")
}

// OnMainCatalog additionally carries the top-level categories and marks.
// Those lists are validated but not reconciled.
type OnMainCatalog struct {
	Catalog
	Categories   []Category
	ProductMarks []ProductMark
}

func (c *OnMainCatalog) Variant() Variant { return VariantOnMain }

func (c *OnMainCatalog) decode(o *object) {
	c.Catalog.decode(o)
	requireList(o, &c.Categories, "categories")
	requireList(o, &c.ProductMarks, "product_marks")
}

// Parse validates data against the root shape of variant.
func Parse(variant Variant, data []byte) (Root, error) {
	var root interface {
		Root
		decode(o *object)
	}
	switch variant {
	case VariantDefault:
		root = &Catalog{}
	case VariantOnMain:
		root = &OnMainCatalog{}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown catalog variant %q", variant))
	}

	if err := decodeDocument(data, root.decode); err != nil {
		return nil, err
	}
	return root, nil
}

// DecodeProduct validates a single product object.
func DecodeProduct(data []byte) (Product, error) {
	var p Product
	var present map[string]struct{}
	err := decodeDocument(data, func(o *object) {
		p.decode(o)
		present = o.present
	})
	if err != nil {
		return Product{}, err
	}
	p.setPresence(present)
	return p, nil
}

func decodeDocument(data []byte, fn func(o *object)) error {
	if !json.Valid(data) {
		return pkgerrors.New(pkgerrors.CodeValidation, "payload is not valid JSON")
	}
	verr := &ValidationError{}
	o, ok := newObject("", data, verr)
	if ok {
		fn(o)
	}
	if len(verr.Errors) > 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, verr, "invalid catalog payload").WithDetails(verr.Errors)
	}
	return nil
}

// FieldErrors extracts the field-level errors from a Parse failure.
func FieldErrors(err error) []FieldError {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	return verr.Errors
}
