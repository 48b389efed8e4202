// Package sprite loads the source images that make up an atlas.
//
// A sprite folder is a flat directory of individually named PNG files, one
// per logical sprite. Scan resolves the folder relative to a manifest's
// directory, decodes every image, stretches it to the atlas tile size and
// returns the entries sorted by name.
//
// Sprites are identified by their file's base name without extension. Two
// sprites with the same name keep the order in which they were scanned.
package sprite
