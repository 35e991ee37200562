// Package session implements the interactive scan-verification state machine.
//
// A session correlates live scans against the containment index. It moves
// through three shapes of state: idle (nothing selected), pallet selected,
// and pallet+box selected with an ordered list of scanned items.
//
// Scan classifies each normalized code by priority - pallet, then box, then
// item - and either advances the state or rejects the scan with a structured
// *ScanError. Rejections never mutate state. One session is active at a time
// per process; all mutations happen through the defined operations on a
// single logical thread.
package session
