// Package viz renders analysis results for the terminal.
//
// Line charts of sampled series (temperature profiles, Monte Carlo
// histograms, FRF magnitude) go through asciigraph; XY data that is not a
// function of a uniform index, such as stability lobes, is drawn on a
// Braille [Canvas]. Colours come from lipgloss styles and the active
// [Theme].
package viz
