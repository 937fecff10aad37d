package api

import (
	"strconv"

	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/object"
)

// CommandNArgs is the number of arguments a user command accepts, serialized
// with the same notation as the :command attribute.
type CommandNArgs int

const (
	NArgsZero CommandNArgs = iota
	NArgsOne
	NArgsZeroOrOne
	NArgsOneOrMore
	NArgsAny
)

func (CommandNArgs) Variants() []string {
	return []string{"0", "1", "?", "+", "*"}
}

// CommandAddr is the addressing mode of a ranged user command. See
// :h command-addr.
type CommandAddr int

const (
	AddrLines CommandAddr = iota
	AddrArguments
	AddrBuffers
	AddrLoadedBuffers
	AddrWindows
	AddrTabs
	AddrQuickfix
	AddrOther
)

func (CommandAddr) Variants() []string {
	return []string{
		"lines",
		"arguments",
		"buffers",
		"loaded_buffers",
		"windows",
		"tabs",
		"quickfix",
		"other",
	}
}

// Count is a command count. The editor carries it as decimal text, with the
// empty string standing for no count.
type Count struct {
	n   uint32
	set bool
}

// CountOf returns a present Count.
func CountOf(n uint32) Count {
	return Count{n: n, set: true}
}

// Value returns the count and whether one was given.
func (c Count) Value() (uint32, bool) {
	return c.n, c.set
}

func (c Count) EncodeObject() (object.Object, error) {
	if !c.set {
		return object.FromGoString(""), nil
	}
	return object.FromGoString(strconv.FormatUint(uint64(c.n), 10)), nil
}

func (c *Count) DecodeObject(o object.Object) error {
	s, err := object.ToGoString(o)
	if err != nil {
		return err
	}
	if s == "" {
		*c = Count{}
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("count %q is not a number", s).
			Cause(err).
			Build()
	}
	*c = CountOf(uint32(n))
	return nil
}

// CommandInfos describes a user command as reported by the editor.
type CommandInfos struct {
	Addr        *CommandAddr `nvim:"addr"`
	Bang        bool         `nvim:"bang"`
	Bar         bool         `nvim:"bar"`
	Complete    *string      `nvim:"complete"`
	CompleteArg *string      `nvim:"complete_arg"`
	Count       Count        `nvim:"count,default"`
	Definition  *string      `nvim:"definition"`
	Keepscript  bool         `nvim:"keepscript"`
	Name        string       `nvim:"name"`
	Nargs       CommandNArgs `nvim:"nargs,default"`
	Range       *string      `nvim:"range"`
	Register    bool         `nvim:"register"`
	ScriptID    int32        `nvim:"script_id"`
}

// Mode is the editor mode letter reported by GetMode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeVisual
	ModeVisualLine
	ModeSelect
	ModeCmdLine
	ModeReplace
	ModeTerminal
	ModeOperatorPending
)

func (Mode) Variants() []string {
	return []string{"n", "i", "v", "V", "s", "c", "R", "t", "no"}
}

// GotMode is the result of GetMode.
type GotMode struct {
	Blocking bool `nvim:"blocking"`
	Mode     Mode `nvim:"mode"`
}

// VirtTextChunk is one [text, highlight-group] pair of a virtual text line,
// exchanged as a two-element array.
type VirtTextChunk struct {
	Text    string
	HlGroup string
}

func (c VirtTextChunk) EncodeObject() (object.Object, error) {
	return object.FromArray(object.NewArray(
		object.FromGoString(c.Text),
		object.FromGoString(c.HlGroup),
	)), nil
}

func (c *VirtTextChunk) DecodeObject(o object.Object) error {
	items, err := object.ToArrayView(o)
	if err != nil {
		return err
	}
	if len(items) != 2 {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("virtual text chunk has %d elements, want 2", len(items)).
			Build()
	}
	text, err := object.ToGoString(items[0])
	if err != nil {
		return err
	}
	group, err := object.ToGoString(items[1])
	if err != nil {
		return err
	}
	c.Text, c.HlGroup = text, group
	return nil
}

// VirtTextPosition is where virtual text is placed relative to the line.
type VirtTextPosition int

const (
	VirtTextEndOfLine VirtTextPosition = iota
	VirtTextOverlay
	VirtTextRightAlign
	VirtTextWinCol
)

func (VirtTextPosition) Variants() []string {
	return []string{"eol", "overlay", "right_align", "win_col"}
}

// ExtmarkInfos describes an extended mark. Most fields are reported only
// when the mark sets them.
type ExtmarkInfos struct {
	EndCol       *int              `nvim:"end_col"`
	EndRow       *int              `nvim:"end_row"`
	HlGroup      *string           `nvim:"hl_group"`
	Priority     *uint32           `nvim:"priority"`
	RightGravity bool              `nvim:"right_gravity"`
	VirtText     []VirtTextChunk   `nvim:"virt_text,default"`
	VirtTextPos  *VirtTextPosition `nvim:"virt_text_pos"`
}

// HighlightInfos are the attributes of a highlight group. Attributes the
// group does not set are reported as absent.
type HighlightInfos struct {
	Background    *uint32 `nvim:"background"`
	BgIndexed     *bool   `nvim:"bg_indexed"`
	Blend         *uint32 `nvim:"blend"`
	Bold          *bool   `nvim:"bold"`
	FgIndexed     *bool   `nvim:"fg_indexed"`
	Foreground    *uint32 `nvim:"foreground"`
	Italic        *bool   `nvim:"italic"`
	Reverse       *bool   `nvim:"reverse"`
	Special       *uint32 `nvim:"special"`
	Standout      *bool   `nvim:"standout"`
	Strikethrough *bool   `nvim:"strikethrough"`
	Undercurl     *bool   `nvim:"undercurl"`
	Underdash     *bool   `nvim:"underdash"`
	Underdot      *bool   `nvim:"underdot"`
	Underline     *bool   `nvim:"underline"`
	Underlineline *bool   `nvim:"underlineline"`
}

// ProcInfos describes a system process as reported by the editor.
type ProcInfos struct {
	Name *string `nvim:"name"`
	Pid  *uint32 `nvim:"pid"`
	Ppid *uint32 `nvim:"ppid"`
}

// StatuslineHighlightInfos is one highlight range of an evaluated
// statusline: the group applies from byte offset Start to the start of the
// next range.
type StatuslineHighlightInfos struct {
	Group string `nvim:"group"`
	Start int    `nvim:"start"`
}

// StatuslineInfos is the result of evaluating a statusline string. The
// highlight ranges are populated only when they were asked for.
type StatuslineInfos struct {
	Highlights []StatuslineHighlightInfos `nvim:"highlights,default"`
	Str        string                     `nvim:"str"`
	Width      uint32                     `nvim:"width"`
}

// AutocmdCallbackArgs are the arguments passed to an autocommand callback.
// Data holds arbitrary user data and is owned by the receiver; release it
// with Free when done.
type AutocmdCallbackArgs struct {
	Buffer Buffer        `nvim:"buf"`
	Data   object.Object `nvim:"data,default"`
	Event  string        `nvim:"event"`
	File   string        `nvim:"file"`
	Group  *uint32       `nvim:"group"`
	ID     uint32        `nvim:"id"`
	Match  string        `nvim:"match"`
}
