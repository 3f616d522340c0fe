package screenshot

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework Foundation
#import <CoreGraphics/CoreGraphics.h>
#import <Foundation/Foundation.h>

bool hasScreenRecordingPermission() {
    if (@available(macOS 11.0, *)) {
        return CGPreflightScreenCaptureAccess();
    }
    return true;
}

void requestScreenRecordingPermission() {
    if (@available(macOS 11.0, *)) {
        CGRequestScreenCaptureAccess();
    }
}
*/
import "C"
import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// HasPermission checks if the app has screen recording permission.
func HasPermission() bool {
	return bool(C.hasScreenRecordingPermission())
}

// RequestPermission requests screen recording permission from the system.
func RequestPermission() {
	C.requestScreenRecordingPermission()
}

// capturePrimary captures the main display non-interactively via the
// system screencapture tool and returns the PNG bytes.
func capturePrimary(ctx context.Context) ([]byte, error) {
	if !HasPermission() {
		return nil, fmt.Errorf("screen recording permission not granted")
	}

	tmpDir := os.TempDir()
	fileName := fmt.Sprintf("ai4coach_frame_%d.png", time.Now().UnixNano())
	filePath := filepath.Join(tmpDir, fileName)
	defer os.Remove(filePath)

	// -x: no sound, -m: main display only, -t png: output format
	cmd := exec.CommandContext(ctx, "screencapture", "-x", "-m", "-t", "png", filePath)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("screencapture failed: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read captured frame: %w", err)
	}
	return data, nil
}
