// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keyboard

import (
	"runtime"
	"sync"
	"time"
	"unicode"

	"github.com/micmonay/keybd_event"
	"github.com/pkg/errors"
)

// LinuxWarmUp is the time uinput needs to register a new virtual keyboard.
const LinuxWarmUp = 2 * time.Second

var letterCodes = []int{
	keybd_event.VK_A, keybd_event.VK_B, keybd_event.VK_C, keybd_event.VK_D, keybd_event.VK_E,
	keybd_event.VK_F, keybd_event.VK_G, keybd_event.VK_H, keybd_event.VK_I, keybd_event.VK_J,
	keybd_event.VK_K, keybd_event.VK_L, keybd_event.VK_M, keybd_event.VK_N, keybd_event.VK_O,
	keybd_event.VK_P, keybd_event.VK_Q, keybd_event.VK_R, keybd_event.VK_S, keybd_event.VK_T,
	keybd_event.VK_U, keybd_event.VK_V, keybd_event.VK_W, keybd_event.VK_X, keybd_event.VK_Y,
	keybd_event.VK_Z,
}

// SystemEmitter emits key events with keybd_event.
type SystemEmitter struct {
	mu sync.Mutex
	kb keybd_event.KeyBonding
}

// NewSystemEmitter creates virtual keyboard. On linux it blocks for LinuxWarmUp.
func NewSystemEmitter() (*SystemEmitter, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, errors.Wrap(err, "cannot create virtual keyboard")
	}
	if runtime.GOOS == "linux" {
		time.Sleep(LinuxWarmUp)
	}
	return &SystemEmitter{kb: kb}, nil
}

// KeyCode returns key code of a latin letter and whether shift is needed.
func KeyCode(ch rune) (code int, shift bool, err error) {
	lower := unicode.ToLower(ch)
	if lower < 'a' || lower > 'z' {
		return 0, false, errors.Wrapf(ErrEmission, "no key for character %q", ch)
	}
	return letterCodes[lower-'a'], unicode.IsUpper(ch), nil
}

// EmitCharacter implements Emitter.
func (e *SystemEmitter) EmitCharacter(ch rune) error {
	code, shift, err := KeyCode(ch)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.kb.Clear()
	e.kb.SetKeys(code)
	e.kb.HasSHIFT(shift)
	if err := e.kb.Launching(); err != nil {
		return errors.Wrapf(ErrEmission, "cannot emit %q: %v", ch, err)
	}
	return nil
}

// ForceFocusChange implements Emitter by pressing Alt+Tab.
func (e *SystemEmitter) ForceFocusChange() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kb.Clear()
	e.kb.SetKeys(keybd_event.VK_TAB)
	e.kb.HasALT(true)
	defer e.kb.HasALT(false)
	if err := e.kb.Launching(); err != nil {
		return errors.Wrapf(ErrEmission, "cannot change focus: %v", err)
	}
	return nil
}
