//go:build dialog
// +build dialog

package main

import (
	"github.com/sqweek/dialog"
)

// openSceneDialog opens the native file dialog and returns the selected path.
func openSceneDialog() (string, error) {
	return dialog.File().Filter("Scene files", "json").Title("Open scene").Load()
}
