//go:build darwin

package clipboard

import (
	"errors"
	"sync"
	"unsafe"
)

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
// #include <stdlib.h>
// bool setClipboardContent(const char *text) {
//     NSPasteboard *pasteboard = [NSPasteboard generalPasteboard];
//     [pasteboard clearContents];
//     NSString *string = [NSString stringWithUTF8String:text];
//     return [pasteboard setString:string forType:NSPasteboardTypeString];
// }
import "C"

var clipboardLock sync.Mutex

func setClipboardContent(text string) error {
	clipboardLock.Lock()
	defer clipboardLock.Unlock()

	cstr := C.CString(text)
	defer C.free(unsafe.Pointer(cstr))

	if !bool(C.setClipboardContent(cstr)) {
		return errors.New("failed to set clipboard content")
	}
	return nil
}
