// Package artpdf converts a single web article into a clean, printable
// document. It fetches the article page, isolates the editorial content
// from the surrounding site chrome, and renders what is left to a
// paginated file.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, gofpdf/).
package artpdf
