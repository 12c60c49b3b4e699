package mesh

import (
	"image"
	"math"
)

// HeightsFromImage converts the brightness of img into a matrix of heights
// for FromHeightmap. White pixels map to maxZ and black pixels to 0.
// heights[i][j] samples the pixel at column i and row j of img's bounds.
func HeightsFromImage(img image.Image, maxZ float64) [][]float64 {
	rect := img.Bounds()
	heights := make([][]float64, rect.Dx())
	for i := range heights {
		heights[i] = make([]float64, rect.Dy())
		for j := range heights[i] {
			r, g, b, _ := img.At(rect.Min.X+i, rect.Min.Y+j).RGBA()
			heights[i][j] = maxZ * float64(r+g+b) / (3 * math.MaxUint16)
		}
	}
	return heights
}
