// Package imaging handles raster input for the stipple pipeline.
//
// It decodes PNG, JPEG, and GIF files, converts them to 8-bit grayscale
// (0 = foreground of interest, 255 = background), and optionally downscales
// oversized inputs. The rest of the pipeline treats the returned image as
// immutable.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Returned images are
// always re-anchored so their bounds start at (0,0).
package imaging
