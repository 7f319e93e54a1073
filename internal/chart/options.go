// Package chart is the mounted chart view: it owns the series, reacts to theme
// changes and applies debounced toggles before re-rendering.
package chart

import (
	"time"

	"github.com/huangsam/churnchart/schema"
)

// Surface defaults per viewport class.
const (
	RegularHeight         = 400
	RegularExpandedHeight = 600
	CompactHeight         = 300
	CompactExpandedHeight = 450
	RegularWidth          = 960
	CompactWidth          = 360
)

// Toggle names.
const (
	LogScaleToggle    = "logarithmicScale"
	IncludeBotsToggle = "includeBots"
)

// Options configures a View.
type Options struct {
	Width            int
	Height           int
	IsExpanded       bool
	Viewport         schema.Viewport
	LogarithmicScale bool
	IncludeBots      bool
	EmptyMessage     string
	DebounceDelay    time.Duration
}

// ResolveHeight returns the surface height. An explicit height wins; otherwise
// the viewport class and expanded flag pick a default.
func ResolveHeight(height int, expanded bool, viewport schema.Viewport) int {
	if height > 0 {
		return height
	}
	if viewport == schema.CompactViewport {
		if expanded {
			return CompactExpandedHeight
		}
		return CompactHeight
	}
	if expanded {
		return RegularExpandedHeight
	}
	return RegularHeight
}

// ResolveWidth returns the surface width for the viewport class.
func ResolveWidth(width int, viewport schema.Viewport) int {
	if width > 0 {
		return width
	}
	if viewport == schema.CompactViewport {
		return CompactWidth
	}
	return RegularWidth
}
