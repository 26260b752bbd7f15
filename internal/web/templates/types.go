// Package templates renders the server's HTML as templ components.
//
// Components are written in the .templ files; the _templ.go files are
// produced from them by `templ generate`.
package templates

// VariantCard is one conversion variant on the dashboard.
type VariantCard struct {
	Name        string
	Description string
	Output      string
	UsesExits   bool
	Sections    []string
}
