//go:build !cgo

package libbladerf

import (
	"errors"

	"github.com/jrwynneiii/gobladerf/native"
)

// Load fails when the binary was built without cgo.
func Load() (native.Library, error) {
	return nil, errors.New("libbladerf: built without cgo, libbladeRF is unavailable")
}
