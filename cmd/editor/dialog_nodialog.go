//go:build !dialog
// +build !dialog

package main

func openSceneDialog() (string, error) {
	return "", errDialogUnavailable
}
