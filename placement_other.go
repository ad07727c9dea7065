// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package xcpu

// Place is unavailable on this platform.
func (Affinity) Place(cpu int) (func(), error) {
	return nil, ErrUnsupported
}
