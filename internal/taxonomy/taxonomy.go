// Package taxonomy provides the static bidirectional mapping between
// human-readable URL slugs and the numeric codes the JobTech search API
// uses for regions and occupation groups. The tables are fixed at build
// time; lookups are O(1) via precomputed inverse maps and absence is
// reported as "not found", never as an error.
package taxonomy

// Kind selects which taxonomy a lookup targets.
type Kind string

// Supported taxonomy kinds.
const (
	KindRegion     Kind = "region"
	KindOccupation Kind = "occupation"
)

// Entry is one taxonomy item: a display name, its upstream code, and the
// URL slug derived from the name.
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Dictionary holds the region and occupation-group tables with inverse
// maps for slug->code and code->slug lookups. Built once, read-only.
type Dictionary struct {
	regions     []Entry
	occupations []Entry
	codeBySlug  map[Kind]map[string]string
	slugByCode  map[Kind]map[string]string
	nameBySlug  map[Kind]map[string]string
}

// NewDictionary builds the dictionary from the static tables.
func NewDictionary() *Dictionary {
	d := &Dictionary{
		codeBySlug: map[Kind]map[string]string{KindRegion: {}, KindOccupation: {}},
		slugByCode: map[Kind]map[string]string{KindRegion: {}, KindOccupation: {}},
		nameBySlug: map[Kind]map[string]string{KindRegion: {}, KindOccupation: {}},
	}

	for _, r := range regionTable {
		e := Entry{Code: r.code, Name: r.name, Slug: regionSlug(r.name)}
		d.regions = append(d.regions, e)
		d.index(KindRegion, e)
	}
	for _, o := range occupationTable {
		e := Entry{Code: o.code, Name: o.name, Slug: Slugify(o.name)}
		d.occupations = append(d.occupations, e)
		d.index(KindOccupation, e)
	}
	return d
}

func (d *Dictionary) index(kind Kind, e Entry) {
	d.codeBySlug[kind][e.Slug] = e.Code
	d.slugByCode[kind][e.Code] = e.Slug
	d.nameBySlug[kind][e.Slug] = e.Name
}

// CodeOf returns the upstream code for a slug, or false if unknown.
func (d *Dictionary) CodeOf(kind Kind, slug string) (string, bool) {
	code, ok := d.codeBySlug[kind][slug]
	return code, ok
}

// SlugOf returns the slug for an upstream code, or false if unknown.
func (d *Dictionary) SlugOf(kind Kind, code string) (string, bool) {
	slug, ok := d.slugByCode[kind][code]
	return slug, ok
}

// NameOf returns the display name for a slug, or false if unknown.
func (d *Dictionary) NameOf(kind Kind, slug string) (string, bool) {
	name, ok := d.nameBySlug[kind][slug]
	return name, ok
}

// IsValid reports whether the slug exists in the given taxonomy.
func (d *Dictionary) IsValid(kind Kind, slug string) bool {
	_, ok := d.codeBySlug[kind][slug]
	return ok
}

// Regions returns all region entries in table order.
func (d *Dictionary) Regions() []Entry {
	out := make([]Entry, len(d.regions))
	copy(out, d.regions)
	return out
}

// OccupationGroups returns all occupation-group entries in table order.
func (d *Dictionary) OccupationGroups() []Entry {
	out := make([]Entry, len(d.occupations))
	copy(out, d.occupations)
	return out
}
