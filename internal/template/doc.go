// Package template renders template and document capability content. The
// engine is Go text/template extended with the sprig function map; Vars
// recovers a template's argument names for discovery listings.
package template
