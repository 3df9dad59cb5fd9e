// Package layoutapi provides the net/http handler that turns an app purpose
// and a list of feature keywords into suggested screens and components.
//
// The handler accepts POST requests with a JSON body of the form
// {"app_purpose": "...", "features": ["..."]} and responds with
// {"layout": [{"screen": "...", "components": ["..."]}]}. Malformed bodies are
// rejected with 422 and a {"detail": [...]} list. An optional preview route
// renders the same layout as HTML.
package layoutapi
