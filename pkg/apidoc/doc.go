// Package apidoc describes the layout HTTP surface as an OpenAPI 3 document
// built with kin-openapi. The same schemas validate incoming request bodies so
// the published contract and the enforced contract cannot drift.
package apidoc
