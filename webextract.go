// Package webextract turns arbitrary web pages into clean, readable text.
// It fetches a page, strips boilerplate from the HTML, sends the remaining
// content to a hosted language model for cleanup, and aggregates the results
// for display or download.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, gemini/).
package webextract
