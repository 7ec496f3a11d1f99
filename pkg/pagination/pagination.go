package pagination

const (
	// DefaultCount is the page size used when a count is not provided.
	DefaultCount = 3
	// MaxCount caps how many rows any page can request.
	MaxCount = 100
	// DefaultPage is the first page; pages are 1-based.
	DefaultPage = 1
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Count int
}

// Normalize fills in defaults for unset values and clamps count to MaxCount.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Count <= 0 {
		p.Count = DefaultCount
	}
	if p.Count > MaxCount {
		p.Count = MaxCount
	}
	return p
}

// Offset returns the number of rows to skip for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Count
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().Count
}
