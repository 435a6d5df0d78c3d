//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"
)

// winHook captures raw key events with a WH_KEYBOARD_LL hook. The hook runs
// on a locked OS thread with its own message loop; Stop posts WM_QUIT to
// that thread.
type winHook struct {
	events   chan KeyEvent
	threadID uint32
	stopped  chan struct{}
}

func newPlatformHook(Combination) (Hook, error) {
	return &winHook{
		events:  make(chan KeyEvent, 64),
		stopped: make(chan struct{}),
	}, nil
}

func (h *winHook) Start() (<-chan KeyEvent, error) {
	errCh := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(h.stopped)
		defer close(h.events)

		user32 := syscall.NewLazyDLL("user32.dll")
		kernel32 := syscall.NewLazyDLL("kernel32.dll")
		procSetWindowsHookExW := user32.NewProc("SetWindowsHookExW")
		procUnhookWindowsHookEx := user32.NewProc("UnhookWindowsHookEx")
		procCallNextHookEx := user32.NewProc("CallNextHookEx")
		procGetMessageW := user32.NewProc("GetMessageW")
		procGetCurrentThreadId := kernel32.NewProc("GetCurrentThreadId")

		const (
			whKeyboardLL = 13
			wmKeydown    = 0x0100
			wmKeyup      = 0x0101
			wmSyskeydown = 0x0104
			wmSyskeyup   = 0x0105
		)

		type kbdllhookstruct struct {
			vkCode      uint32
			scanCode    uint32
			flags       uint32
			time        uint32
			dwExtraInfo uintptr
		}

		tid, _, _ := procGetCurrentThreadId.Call()
		h.threadID = uint32(tid)

		callback := syscall.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
			if int32(nCode) >= 0 {
				msg := uint32(wParam)
				k := (*kbdllhookstruct)(unsafe.Pointer(lParam))
				if key, ok := keyFromVK(k.vkCode); ok {
					press := msg == wmKeydown || msg == wmSyskeydown
					release := msg == wmKeyup || msg == wmSyskeyup
					if press || release {
						select {
						case h.events <- KeyEvent{Key: key, Press: press}:
						default:
							// The hook thread must never block.
						}
					}
				}
			}
			ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
			return ret
		})

		hook, _, _ := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), callback, 0, 0)
		if hook == 0 {
			errCh <- fmt.Errorf("SetWindowsHookExW failed")
			return
		}
		errCh <- nil

		var msg struct {
			Hwnd    uintptr
			Message uint32
			WParam  uintptr
			LParam  uintptr
			Time    uint32
			PtX     int32
			PtY     int32
		}
		for {
			ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) <= 0 { // error or WM_QUIT
				break
			}
		}
		procUnhookWindowsHookEx.Call(hook)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
		return h.events, nil
	case <-time.After(2 * time.Second):
		return nil, fmt.Errorf("timeout installing low-level keyboard hook")
	}
}

func (h *winHook) Stop() error {
	user32 := syscall.NewLazyDLL("user32.dll")
	procPostThreadMessageW := user32.NewProc("PostThreadMessageW")
	const wmQuit = 0x0012
	if h.threadID != 0 {
		procPostThreadMessageW.Call(uintptr(h.threadID), uintptr(wmQuit), 0, 0)
	}
	select {
	case <-h.stopped:
	case <-time.After(2 * time.Second):
		return fmt.Errorf("hook thread did not exit")
	}
	return nil
}

// keyFromVK maps Windows virtual-key codes onto canonical tokens.
func keyFromVK(vk uint32) (Key, bool) {
	switch vk {
	case 0x10, 0xA0, 0xA1: // VK_SHIFT, VK_LSHIFT, VK_RSHIFT
		return KeyShift, true
	case 0x11, 0xA2, 0xA3: // VK_CONTROL, VK_LCONTROL, VK_RCONTROL
		return KeyCtrl, true
	case 0x12, 0xA4, 0xA5: // VK_MENU, VK_LMENU, VK_RMENU
		return KeyAlt, true
	case 0x5B, 0x5C: // VK_LWIN, VK_RWIN
		return KeyCmd, true
	case 0x20:
		return KeySpace, true
	case 0x0D:
		return KeyEnter, true
	case 0x09:
		return KeyTab, true
	case 0x1B:
		return KeyEsc, true
	case 0x08:
		return "backspace", true
	case 0x2E:
		return "delete", true
	case 0x25:
		return "left", true
	case 0x26:
		return "up", true
	case 0x27:
		return "right", true
	case 0x28:
		return "down", true
	}
	if vk >= 'A' && vk <= 'Z' {
		return Key(rune(vk - 'A' + 'a')), true
	}
	if vk >= '0' && vk <= '9' {
		return Key(rune(vk)), true
	}
	if vk >= 0x70 && vk <= 0x87 { // VK_F1..VK_F24
		return Key(fmt.Sprintf("f%d", vk-0x70+1)), true
	}
	return "", false
}
