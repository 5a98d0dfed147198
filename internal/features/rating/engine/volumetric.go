package engine

import "freight-rating/internal/features/rating/domain"

// DefaultVolRatio is the dimensional divisor used when a channel sets none.
const DefaultVolRatio = 6000.0

// cm³ per m³.
const cubicCentimetresPerCubicMetre = 1_000_000.0

// BoxVolume is the box volume in cubic metres.
func BoxVolume(b domain.Box) float64 {
	return b.Length * b.Width * b.Height / cubicCentimetresPerCubicMetre
}

// BoxVolumetricWeight is l·w·h / divisor, with DefaultVolRatio for a non-positive divisor.
func BoxVolumetricWeight(b domain.Box, divisor float64) float64 {
	if divisor <= 0 {
		divisor = DefaultVolRatio
	}
	return b.Length * b.Width * b.Height / divisor
}

// Volume sums box volumes in cubic metres.
func Volume(boxes []domain.Box) float64 {
	var total float64
	for _, b := range boxes {
		total += BoxVolume(b)
	}
	return total
}

// VolumetricWeight sums box dimensional weights for the given divisor.
func VolumetricWeight(boxes []domain.Box, divisor float64) float64 {
	var total float64
	for _, b := range boxes {
		total += BoxVolumetricWeight(b, divisor)
	}
	return total
}
