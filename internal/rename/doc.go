// Package rename replays an edited manifest against the snapshot it came
// from. Old and new path lists are paired by index; entries whose path
// changed are renamed under the session root. A changed entry count aborts
// the kind before anything is touched, and the first failed rename stops
// the batch.
package rename
