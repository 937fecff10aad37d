package api

import (
	"github.com/nvigo/nvigo/bridge"
	"github.com/nvigo/nvigo/ffi"
	"github.com/nvigo/nvigo/object"
)

// CurrentTabPage returns the handle of the focused tabpage.
func CurrentTabPage() TabPage {
	return TabPage(ffi.GetCurrentTabpageFn())
}

// DelVar removes a tab-scoped variable.
func (t TabPage) DelVar(name string) error {
	s := object.NewString(name)
	defer s.Free()
	return ffi.CallNone(func(slot *ffi.Error) {
		ffi.TabpageDelVarFn(int32(t), s.NonOwning(), slot)
	})
}

// Number returns the tabpage number, the 1-based position shown in the
// tabline. Unlike the handle it changes when tabpages are reordered.
func (t TabPage) Number() (int64, error) {
	return ffi.Call(func(slot *ffi.Error) int64 {
		return ffi.TabpageGetNumberFn(int32(t), slot)
	}, func(n int64) (int64, error) {
		return n, nil
	})
}

// GetVar reads a tab-scoped variable, decoding it into out, which must be a
// non-nil pointer.
func (t TabPage) GetVar(name string, out any) error {
	s := object.NewString(name)
	defer s.Free()
	_, err := ffi.Call(func(slot *ffi.Error) object.Object {
		return ffi.TabpageGetVarFn(int32(t), s.NonOwning(), slot)
	}, func(o object.Object) (struct{}, error) {
		defer o.Free()
		return struct{}{}, bridge.Decode(o, out)
	})
	return err
}

// SetVar writes a tab-scoped variable, encoding value through the bridge.
func (t TabPage) SetVar(name string, value any) error {
	o, err := bridge.Encode(value)
	if err != nil {
		return err
	}
	defer o.Free()

	s := object.NewString(name)
	defer s.Free()
	return ffi.CallNone(func(slot *ffi.Error) {
		ffi.TabpageSetVarFn(int32(t), s.NonOwning(), o.NonOwning(), slot)
	})
}

// GetWin returns the active window of the tabpage.
func (t TabPage) GetWin() (Window, error) {
	return ffi.Call(func(slot *ffi.Error) int32 {
		return ffi.TabpageGetWinFn(int32(t), slot)
	}, func(h int32) (Window, error) {
		return Window(h), nil
	})
}

// IsValid reports whether the handle still names a live tabpage.
func (t TabPage) IsValid() bool {
	return ffi.TabpageIsValidFn(int32(t))
}

// ListWins returns the windows of the tabpage.
func (t TabPage) ListWins() ([]Window, error) {
	return ffi.Call(func(slot *ffi.Error) object.Array {
		return ffi.TabpageListWinsFn(int32(t), slot)
	}, func(arr object.Array) ([]Window, error) {
		defer arr.Free()
		items := arr.Items()
		wins := make([]Window, len(items))
		for i, item := range items {
			if err := wins[i].DecodeObject(item); err != nil {
				return nil, err
			}
		}
		return wins, nil
	})
}
