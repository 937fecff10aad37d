package api

import (
	"github.com/nvigo/nvigo/bridge"
	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/ffi"
	"github.com/nvigo/nvigo/object"
)

// CreateNamespace creates a new namespace or returns the id of an existing
// one with the same name.
func CreateNamespace(name string) uint32 {
	s := object.NewString(name)
	defer s.Free()
	return uint32(ffi.CreateNamespaceFn(s.NonOwning()))
}

// GetNamespaces returns the ids of all named namespaces, keyed by name.
func GetNamespaces() (map[string]uint32, error) {
	dict := ffi.GetNamespacesFn()
	o := object.FromDictionary(dict)
	defer o.Free()

	var out map[string]uint32
	if err := bridge.Decode(o, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecorationProviderOpts wires host-side callbacks into the editor's redraw
// cycle for a namespace.
type DecorationProviderOpts struct {
	OnBuf   *object.CallbackRef `nvim:"on_buf,omitempty"`
	OnEnd   *object.CallbackRef `nvim:"on_end,omitempty"`
	OnLine  *object.CallbackRef `nvim:"on_line,omitempty"`
	OnStart *object.CallbackRef `nvim:"on_start,omitempty"`
	OnWin   *object.CallbackRef `nvim:"on_win,omitempty"`
}

// SetDecorationProvider sets or changes the decoration provider of a
// namespace.
func SetDecorationProvider(nsID uint32, opts DecorationProviderOpts) error {
	o, err := bridge.Encode(opts)
	if err != nil {
		return err
	}
	defer o.Free()
	return ffi.CallNone(func(slot *ffi.Error) {
		ffi.SetDecorationProviderFn(int64(nsID), o.NonOwning(), slot)
	})
}

// AddHighlight applies a highlight group to a byte range of a buffer line.
// Line and columns are 0-indexed, colEnd -1 highlights to the end of the
// line. Returns the namespace id the highlight was added under.
func (b Buffer) AddHighlight(nsID uint32, hlGroup string, line, colStart, colEnd int) (uint32, error) {
	s := object.NewString(hlGroup)
	defer s.Free()
	return ffi.Call(func(slot *ffi.Error) int64 {
		return ffi.BufAddHighlightFn(int32(b), int64(nsID), s.NonOwning(),
			int64(line), int64(colStart), int64(colEnd), slot)
	}, func(ns int64) (uint32, error) {
		return uint32(ns), nil
	})
}

// ClearNamespace removes namespaced objects like highlights, extmarks and
// virtual text from a 0-indexed line range. lineEnd -1 clears to the end of
// the buffer.
func (b Buffer) ClearNamespace(nsID uint32, lineStart, lineEnd int) error {
	return ffi.CallNone(func(slot *ffi.Error) {
		ffi.BufClearNamespaceFn(int32(b), int64(nsID), int64(lineStart), int64(lineEnd), slot)
	})
}

// SetExtmarkOpts are the optional attributes of a created or updated
// extmark.
type SetExtmarkOpts struct {
	ID           *uint32           `nvim:"id,omitempty"`
	EndCol       *int              `nvim:"end_col,omitempty"`
	EndRow       *int              `nvim:"end_row,omitempty"`
	HlGroup      *string           `nvim:"hl_group,omitempty"`
	Priority     *uint32           `nvim:"priority,omitempty"`
	RightGravity *bool             `nvim:"right_gravity,omitempty"`
	VirtText     []VirtTextChunk   `nvim:"virt_text,default"`
	VirtTextPos  *VirtTextPosition `nvim:"virt_text_pos,omitempty"`
}

// SetExtmark creates or updates an extmark at a 0-indexed (line, col)
// position and returns its id.
func (b Buffer) SetExtmark(nsID uint32, line, col int, opts SetExtmarkOpts) (uint32, error) {
	o, err := bridge.Encode(opts)
	if err != nil {
		return 0, err
	}
	defer o.Free()
	return ffi.Call(func(slot *ffi.Error) int64 {
		return ffi.BufSetExtmarkFn(int32(b), int64(nsID), int64(line), int64(col), o.NonOwning(), slot)
	}, func(id int64) (uint32, error) {
		return uint32(id), nil
	})
}

// DelExtmark removes an extmark. Removing an id the namespace does not hold
// is an error.
func (b Buffer) DelExtmark(nsID, extmarkID uint32) error {
	found, err := ffi.Call(func(slot *ffi.Error) bool {
		return ffi.BufDelExtmarkFn(int32(b), int64(nsID), int64(extmarkID), slot)
	}, func(found bool) (bool, error) {
		return found, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return errors.New(errors.PhaseCall, errors.KindInvalidData).
			Detail("no extmark with id %d", extmarkID).
			Build()
	}
	return nil
}

// GetExtmarkByID returns the 0-indexed (row, col) position of an extmark.
// Infos are present only when details was requested.
func (b Buffer) GetExtmarkByID(nsID, extmarkID uint32, details bool) (row, col int, infos *ExtmarkInfos, err error) {
	opts, err := extmarkOpts(details)
	if err != nil {
		return 0, 0, nil, err
	}
	defer opts.Free()

	mark, err := ffi.Call(func(slot *ffi.Error) object.Array {
		return ffi.BufGetExtmarkByIDFn(int32(b), int64(nsID), int64(extmarkID), opts.NonOwning(), slot)
	}, func(arr object.Array) (Extmark, error) {
		defer arr.Free()
		items := arr.Items()
		if len(items) == 0 {
			return Extmark{}, errors.New(errors.PhaseCall, errors.KindInvalidData).
				Detail("no extmark with id %d", extmarkID).
				Build()
		}
		row, col, infos, err := decodeExtmarkTuple(items)
		return Extmark{ID: extmarkID, Row: row, Col: col, Infos: infos}, err
	})
	return mark.Row, mark.Col, mark.Infos, err
}

// Extmark is one mark returned by GetExtmarks. Position is 0-indexed; Infos
// are present only when details was requested.
type Extmark struct {
	ID    uint32
	Row   int
	Col   int
	Infos *ExtmarkInfos
}

// ExtmarkPosition locates one end of a GetExtmarks range, either by extmark
// id or by 0-indexed (row, col) position. Col -1 means the end of the row.
type ExtmarkPosition struct {
	id       uint32
	row, col int
	byID     bool
}

// ExtmarkByID addresses the position of an existing extmark.
func ExtmarkByID(id uint32) ExtmarkPosition {
	return ExtmarkPosition{id: id, byID: true}
}

// ExtmarkAt addresses a 0-indexed (row, col) position.
func ExtmarkAt(row, col int) ExtmarkPosition {
	return ExtmarkPosition{row: row, col: col}
}

func (p ExtmarkPosition) EncodeObject() (object.Object, error) {
	if p.byID {
		return object.FromInteger(int64(p.id)), nil
	}
	return object.FromArray(object.NewArray(
		object.FromInteger(int64(p.row)),
		object.FromInteger(int64(p.col)),
	)), nil
}

// GetExtmarks returns the extmarks of a namespace inside the region between
// start and end, in traversal order.
func (b Buffer) GetExtmarks(nsID uint32, start, end ExtmarkPosition, details bool) ([]Extmark, error) {
	startObj, err := start.EncodeObject()
	if err != nil {
		return nil, err
	}
	defer startObj.Free()
	endObj, err := end.EncodeObject()
	if err != nil {
		return nil, err
	}
	defer endObj.Free()

	opts, err := extmarkOpts(details)
	if err != nil {
		return nil, err
	}
	defer opts.Free()

	return ffi.Call(func(slot *ffi.Error) object.Array {
		return ffi.BufGetExtmarksFn(int32(b), int64(nsID),
			startObj.NonOwning(), endObj.NonOwning(), opts.NonOwning(), slot)
	}, func(arr object.Array) ([]Extmark, error) {
		defer arr.Free()
		items := arr.Items()
		marks := make([]Extmark, 0, len(items))
		for _, item := range items {
			tuple, err := object.ToArrayView(item)
			if err != nil {
				return nil, err
			}
			if len(tuple) < 3 {
				return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
					Detail("extmark tuple has %d elements, want at least 3", len(tuple)).
					Build()
			}
			id, err := object.ToInteger(tuple[0])
			if err != nil {
				return nil, err
			}
			row, col, infos, err := decodeExtmarkTuple(tuple[1:])
			if err != nil {
				return nil, err
			}
			marks = append(marks, Extmark{ID: uint32(id), Row: row, Col: col, Infos: infos})
		}
		return marks, nil
	})
}

func extmarkOpts(details bool) (object.Object, error) {
	return bridge.Encode(map[string]bool{"details": details})
}

// decodeExtmarkTuple decodes a [row, col] or [row, col, details] sequence.
func decodeExtmarkTuple(items []object.Object) (int, int, *ExtmarkInfos, error) {
	if len(items) < 2 {
		return 0, 0, nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("extmark position has %d elements, want at least 2", len(items)).
			Build()
	}
	row, err := object.ToInteger(items[0])
	if err != nil {
		return 0, 0, nil, err
	}
	col, err := object.ToInteger(items[1])
	if err != nil {
		return 0, 0, nil, err
	}
	var infos *ExtmarkInfos
	if len(items) > 2 {
		infos = new(ExtmarkInfos)
		if err := bridge.Decode(items[2], infos); err != nil {
			return 0, 0, nil, err
		}
	}
	return int(row), int(col), infos, nil
}
