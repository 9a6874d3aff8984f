// internal/domain/builder/rules.go
package builder

// Restriction bounds how many units of one category a build may carry.
// Max == 0 means unbounded.
type Restriction struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// Restrictions lists the seven guided-build steps in order. Every
// category is required (Min 1); RAM allows two modules and storage any
// number of drives.
var Restrictions = []Restriction{
	{Slug: "cpu", Label: "Procesador", Min: 1, Max: 1},
	{Slug: "motherboard", Label: "Motherboard", Min: 1, Max: 1},
	{Slug: "ram", Label: "Memoria RAM", Min: 1, Max: 2},
	{Slug: "gpu", Label: "Placa de video", Min: 1, Max: 1},
	{Slug: "psu", Label: "Fuente", Min: 1, Max: 1},
	{Slug: "case", Label: "Gabinete", Min: 1, Max: 1},
	{Slug: "storage", Label: "Almacenamiento", Min: 1, Max: 0},
}

// restrictionFor returns the restriction for a category slug.
func restrictionFor(slug string) (Restriction, bool) {
	for _, r := range Restrictions {
		if r.Slug == slug {
			return r, true
		}
	}
	return Restriction{}, false
}

// maxAllowed returns the effective upper bound for a selection given
// the category restriction and the product's stock.
func maxAllowed(r Restriction, stock int) int {
	if r.Max > 0 && r.Max < stock {
		return r.Max
	}
	return stock
}
