// Package model defines shared data structures.
package model

// Config defines practice settings.
type Config struct {
	Path     string
	Width    int
	Bell     bool
	DebugLog string
}
