// Package signal generates deterministic test waveforms for feature
// extraction: sines, seeded white noise, linear chirps and silence, as
// plain slices or as (channel, time) arrays.
package signal
