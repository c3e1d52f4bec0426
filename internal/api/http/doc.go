// Package http exposes desktops, the app catalog and paint relay state
// over a JSON REST API built on gin.
//
// Errors are returned as {"error": "..."} with a 4xx status. Window
// operations against unknown window ids are no-ops that still return the
// desktop snapshot; only an unknown desktop is a 404.
package http
