// Package clipboard writes text to the system clipboard.
package clipboard

// SetText places text on the system clipboard.
func SetText(text string) error {
	return setClipboardContent(text)
}
