// Package window generates the analysis windows used for short-time
// spectral framing.
//
// Windows default to the symmetric form. Spectrogram framing normally wants
// the periodic form ([WithPeriodic]), which matches the DFT period and is
// what speech front ends expect for Hann and Hamming windows.
package window
