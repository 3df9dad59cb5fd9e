// Package render turns planned layouts into response payloads. The JSON
// renderer produces the {"layout": [...]} body of the HTTP API; the text
// renderer backs the CLI. HTML previews live in the preview subpackage.
package render
