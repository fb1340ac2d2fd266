// Package rsi implements the RSI sprite package format: a directory holding a
// meta.json document and one PNG sprite sheet per icon state.
//
// Each state carries 1, 4 or 8 directions, each direction an ordered list of
// frames. On write, all frames of a state are packed into a single near-square
// sheet; on read, the sheet is cut back into frames using the delays stored in
// meta.json. Both directions walk the frames in the same order: direction
// major, frame minor, cells placed row by row.
//
// States can also be imported from a foreign sprite container (see package
// dmi) through the ForeignSource interface.
package rsi
