//go:build !darwin

package clipboard

import "errors"

func setClipboardContent(string) error {
	return errors.New("clipboard not supported on this platform")
}
