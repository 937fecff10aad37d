package api

import (
	"github.com/nvigo/nvigo/bridge"
	"github.com/nvigo/nvigo/ffi"
	"github.com/nvigo/nvigo/object"
)

// GetMode returns the current mode and whether the editor is blocked waiting
// for input. This call never fails, so it carries no error slot.
func GetMode() (GotMode, error) {
	dict := ffi.GetModeFn()
	o := object.FromDictionary(dict)
	defer o.Free()

	var got GotMode
	err := bridge.Decode(o, &got)
	return got, err
}
