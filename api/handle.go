package api

import (
	"fmt"

	"github.com/nvigo/nvigo/object"
)

// Buffer is an editor buffer handle. Handles are plain identifiers; they say
// nothing about whether the buffer still exists.
type Buffer int32

func (b Buffer) String() string {
	return fmt.Sprintf("Buffer(%d)", int32(b))
}

func (b Buffer) EncodeObject() (object.Object, error) {
	return object.FromHandle(object.KindBuffer, int32(b)), nil
}

func (b *Buffer) DecodeObject(o object.Object) error {
	id, err := object.ToHandle(o, object.KindBuffer)
	if err != nil {
		return err
	}
	*b = Buffer(id)
	return nil
}

// Window is an editor window handle.
type Window int32

func (w Window) String() string {
	return fmt.Sprintf("Window(%d)", int32(w))
}

func (w Window) EncodeObject() (object.Object, error) {
	return object.FromHandle(object.KindWindow, int32(w)), nil
}

func (w *Window) DecodeObject(o object.Object) error {
	id, err := object.ToHandle(o, object.KindWindow)
	if err != nil {
		return err
	}
	*w = Window(id)
	return nil
}

// TabPage is an editor tabpage handle.
type TabPage int32

func (t TabPage) String() string {
	return fmt.Sprintf("TabPage(%d)", int32(t))
}

func (t TabPage) EncodeObject() (object.Object, error) {
	return object.FromHandle(object.KindTabPage, int32(t)), nil
}

func (t *TabPage) DecodeObject(o object.Object) error {
	id, err := object.ToHandle(o, object.KindTabPage)
	if err != nil {
		return err
	}
	*t = TabPage(id)
	return nil
}
