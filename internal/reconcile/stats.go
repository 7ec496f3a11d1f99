package reconcile

import "sort"

// CollectionStats counts the writes one collection sync performed.
type CollectionStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
	Linked   int `json:"linked"`
	Unlinked int `json:"unlinked"`
}

func (c CollectionStats) add(other CollectionStats) CollectionStats {
	return CollectionStats{
		Inserted: c.Inserted + other.Inserted,
		Updated:  c.Updated + other.Updated,
		Deleted:  c.Deleted + other.Deleted,
		Linked:   c.Linked + other.Linked,
		Unlinked: c.Unlinked + other.Unlinked,
	}
}

// Writes is the total number of rows touched.
func (c CollectionStats) Writes() int {
	return c.Inserted + c.Updated + c.Deleted + c.Linked + c.Unlinked
}

// Stats summarizes one or more reconciled products.
type Stats struct {
	Products    int                        `json:"products"`
	Created     int                        `json:"created"`
	Updated     int                        `json:"updated"`
	Collections map[string]CollectionStats `json:"collections"`
}

func (s *Stats) record(name string, c CollectionStats) {
	if s.Collections == nil {
		s.Collections = map[string]CollectionStats{}
	}
	s.Collections[name] = s.Collections[name].add(c)
}

// Merge folds other into s.
func (s *Stats) Merge(other Stats) {
	s.Products += other.Products
	s.Created += other.Created
	s.Updated += other.Updated
	for name, c := range other.Collections {
		s.record(name, c)
	}
}

// Writes is the total number of rows touched, root rows included.
func (s Stats) Writes() int {
	total := s.Created + s.Updated
	for _, c := range s.Collections {
		total += c.Writes()
	}
	return total
}

// Names returns the collection names with recorded stats, sorted.
func (s Stats) Names() []string {
	names := make([]string, 0, len(s.Collections))
	for name := range s.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
