// Package dmi implements a reader for BYOND .dmi icon files.
//
// A .dmi file is an ordinary PNG carrying a compressed text chunk with the
// keyword "Description". The description lists the icon size and the states;
// the PNG itself is a grid of icons in state order.
//
// Icons of one state are stored frame by frame, and within a frame direction
// by direction, using BYOND's direction order (south, north, east, west, then
// the diagonals).
//
// An *Icon implements rsi.ForeignSource, so it can be handed to rsi.Import.
package dmi
