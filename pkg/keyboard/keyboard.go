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

// Package keyboard synthesizes keystrokes into the active input stream.
package keyboard

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Alphabet is the set of characters emitted during injection.
const Alphabet = "abcdefghijklmnopqrstuvwxyz"

// ErrEmission is the cause of every failed key emission.
var ErrEmission = errors.New("key emission failed")

// Emitter sends keystrokes to whatever window has focus.
type Emitter interface {
	// EmitCharacter sends key down and key up of ch, with modifiers if needed.
	EmitCharacter(ch rune) error
	// ForceFocusChange moves focus to another window.
	ForceFocusChange() error
}

// RandomCharacter returns uniformly chosen character of Alphabet.
func RandomCharacter(r *rand.Rand) rune {
	return rune(Alphabet[r.Intn(len(Alphabet))])
}
