// Package youtube normalizes user input into canonical video identifiers.
//
// Accepted shapes are a bare 11-character id, youtu.be short links, and
// youtube.com URLs carrying the id in the "v" query parameter or in a
// /shorts/, /embed/ or /live/ path. Scheme-less input such as
// "youtu.be/ID" is accepted. Callers normalize before touching the store so
// the queue only ever holds canonical ids.
package youtube
