// Package pointio reads and writes point sets and nearest-neighbour solutions.
//
// # Formats
//
// Point files hold one point per line:
//
//	x y [label]
//
// Solution files hold one pair per line, query first:
//
//	qx qy nx ny
//
// Fields are separated by whitespace or commas. Blank lines and lines
// starting with '#' are ignored. A label is the rest of the line after y and
// may itself contain commas and runs of whitespace; it cannot contain a line
// break, start with a separator or end with whitespace.
//
// # Compression
//
// The compression is picked from the file name: ".zst" (zstd), ".gz" (gzip)
// and ".lz4" (LZ4 frames). Any other name is read and written as plain text.
package pointio
