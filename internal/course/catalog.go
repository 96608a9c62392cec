package course

import "time"

// CatalogEntry is one course line of a curriculum degree plan.
type CatalogEntry struct {
	Year     string `json:"year"`
	Semester string `json:"semester"`
	Credits  int    `json:"credits"`
	Course   string `json:"course"`
	Position int    `json:"position"`
}

// Catalog is the degree plan of one curriculum type, e.g. "Computer Science".
type Catalog struct {
	CurriculumType string         `json:"curriculumType"`
	Entries        []CatalogEntry `json:"entries"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Section returns the entries for a year and semester in document order.
func (c *Catalog) Section(year, semester string) []CatalogEntry {
	var out []CatalogEntry
	for _, e := range c.Entries {
		if e.Year == year && e.Semester == semester {
			out = append(out, e)
		}
	}
	return out
}

// Years returns the distinct years in document order.
func (c *Catalog) Years() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range c.Entries {
		if !seen[e.Year] {
			seen[e.Year] = true
			out = append(out, e.Year)
		}
	}
	return out
}

// TotalCredits sums the credits of every entry.
func (c *Catalog) TotalCredits() int {
	total := 0
	for _, e := range c.Entries {
		total += e.Credits
	}
	return total
}
