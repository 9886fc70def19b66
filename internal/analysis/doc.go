// Package analysis turns recorded or simulated runs into numbers and
// pictures:
//
//   - [OrbitalPeriod]: dominant period of a distance series via FFT
//   - [PowerSpectrum]: magnitude spectrum of a series
//   - [Divergence]: growth rate of a small displacement of one body
//   - [PathToASCII]: terminal plot of a body's path
//
// # Orbital Period
//
// The distance between two bodies on a closed orbit oscillates once per
// revolution, so the strongest non-DC frequency of the distance series is
// the orbital frequency:
//
//	d := metrics.NewDistance(0, 1)
//	runner.AddMetric(d)
//	runner.Run(ctx, 2000)
//	days, err := analysis.OrbitalPeriod(d.Series(), world.TickTime)
package analysis
