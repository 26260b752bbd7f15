// Package variants registers the conversion variants with the core registry.
// Import this package to ensure all variants are registered.
package variants

import "github.com/JonMunkholm/racesql/internal/core"

func init() {
	core.Register(SingleStage("1"))
	core.Register(Full())
}

// Names of the built-in variants.
const (
	SingleStageName = "single-stage"
	FullName        = "full"
)

var countryColumns = []core.Column{
	{Name: "ioc", Attr: core.AttrIOC},
	{Name: "name", Attr: core.AttrName},
	{Name: "region", Attr: core.AttrRegion},
}

var namedCountryColumns = []core.Column{
	{Name: "name", Attr: core.AttrName},
	{Name: "country", Attr: core.AttrCountry},
}
