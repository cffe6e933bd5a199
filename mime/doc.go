// Package mime implements an incremental, suspendable MIME multipart
// parser and a matching encoder. The parser is an offer/drain automaton:
// Offer appends bytes and synchronously drains as many parse events as
// possible before returning, stopping only when it needs more input or the
// message is fully parsed. It never blocks and never spawns goroutines.
package mime
