// Package viz renders scenes in the terminal. Canvas draws into a braille
// sub-pixel grid; Model wraps it in an interactive bubbletea program with
// pause, reset, parameter tuning and replay.
package viz
