// Package api is the HTTP adapter of the exit checker. It exposes the
// statistics, monitor status, open session, checklist items and home zone
// over a chi router and translates core errors into safe HTTP responses.
package api
