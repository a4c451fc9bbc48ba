package spectrogram

import "math"

// amin keeps log10 away from zero for silent cells.
const amin = 1e-5

// AmplitudeToDB converts magnitudes to decibels relative to the loudest cell,
// clipping everything quieter than -topDB.
func AmplitudeToDB(mag [][]float64, topDB float64) [][]float64 {
	ref := 0.0
	for _, row := range mag {
		for _, v := range row {
			ref = math.Max(ref, v)
		}
	}
	refDB := 20 * math.Log10(math.Max(amin, ref))

	out := make([][]float64, len(mag))
	for b, row := range mag {
		out[b] = make([]float64, len(row))
		for f, v := range row {
			db := 20*math.Log10(math.Max(amin, v)) - refDB
			if db < -topDB {
				db = -topDB
			}
			out[b][f] = db
		}
	}
	return out
}
