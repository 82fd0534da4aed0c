package anime

import "sort"

// UnknownGenre is the bucket for records without any genre
const UnknownGenre = "Unknown"

// Grouping maps a genre name to the records listing it, in input order
type Grouping map[string][]Record

// Section is one genre bucket in render order
type Section struct {
	Genre   string   `json:"genre" yaml:"genre"`
	Records []Record `json:"records" yaml:"records"`
}

// Group buckets records by genre. A record lands once per genre it lists,
// so multi-genre records fan out across buckets. Duplicate genre entries on
// one record are not collapsed.
func Group(records []Record) Grouping {
	groups := make(Grouping)
	for _, r := range records {
		if len(r.Genres) == 0 {
			groups[UnknownGenre] = append(groups[UnknownGenre], r)
			continue
		}
		for _, genre := range r.Genres {
			groups[genre] = append(groups[genre], r)
		}
	}
	return groups
}

// Genres returns the bucket keys in ascending lexicographic order
func (g Grouping) Genres() []string {
	genres := make([]string, 0, len(g))
	for genre := range g {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	return genres
}

// Sections returns the buckets ordered by genre name
func (g Grouping) Sections() []Section {
	genres := g.Genres()
	sections := make([]Section, len(genres))
	for i, genre := range genres {
		sections[i] = Section{Genre: genre, Records: g[genre]}
	}
	return sections
}

// Len returns the number of buckets
func (g Grouping) Len() int {
	return len(g)
}
