//go:build !darwin

package screenshot

import (
	"context"
	"fmt"
)

// HasPermission checks if the app has screen recording permission.
func HasPermission() bool {
	return false
}

// RequestPermission requests screen recording permission from the system.
func RequestPermission() {}

func capturePrimary(_ context.Context) ([]byte, error) {
	return nil, fmt.Errorf("screen capture not supported on this platform")
}
