package result

// Hit is a single search hit.
type Hit struct {
	id    string
	score float64
}

// NewHit creates a search hit.
func NewHit(id string, score float64) Hit {
	return Hit{id: id, score: score}
}

// ID returns the document identifier.
func (h Hit) ID() string { return h.id }

// Score returns the engine relevance score (0 when the engine reports none).
func (h Hit) Score() float64 { return h.score }

// Page is one window of search hits plus the total match count.
type Page struct {
	total int
	hits  []Hit
}

// NewPage creates a result page.
func NewPage(total int, hits []Hit) *Page {
	if hits == nil {
		hits = []Hit{}
	}
	return &Page{total: total, hits: hits}
}

// Total returns the number of documents matching the query, across all pages.
func (p *Page) Total() int { return p.total }

// Hits returns the hits of this page in engine order.
func (p *Page) Hits() []Hit { return p.hits }

// IDs returns the hit identifiers in order.
func (p *Page) IDs() []string {
	ids := make([]string, len(p.hits))
	for i, h := range p.hits {
		ids[i] = h.id
	}
	return ids
}
