package api

import (
	"github.com/nvigo/nvigo/bridge"
	"github.com/nvigo/nvigo/object"
)

// SplitModifier is the :split placement modifier applied to a command, with
// SplitNone standing for no modifier. The editor reports the absent case as
// an empty string.
type SplitModifier int

const (
	SplitNone SplitModifier = iota
	SplitAboveLeft
	SplitBelowRight
	SplitTopLeft
	SplitBotRight
)

func (SplitModifier) Variants() []string {
	return []string{"", "aboveleft", "belowright", "topleft", "botright"}
}

// CommandModifiers are the modifiers in effect when a user command runs. See
// :h command-modifiers.
type CommandModifiers struct {
	Browse       bool          `nvim:"browse"`
	Confirm      bool          `nvim:"confirm"`
	EmsgSilent   bool          `nvim:"emsg_silent"`
	Hide         bool          `nvim:"hide"`
	Keepalt      bool          `nvim:"keepalt"`
	Keepjumps    bool          `nvim:"keepjumps"`
	Keepmarks    bool          `nvim:"keepmarks"`
	Keeppatterns bool          `nvim:"keeppatterns"`
	Lockmarks    bool          `nvim:"lockmarks"`
	Noautocmd    bool          `nvim:"noautocmd"`
	Noswapfile   bool          `nvim:"noswapfile"`
	Sandbox      bool          `nvim:"sandbox"`
	Silent       bool          `nvim:"silent"`
	Split        SplitModifier `nvim:"split,default"`
	Tab          int32         `nvim:"tab"`
	Verbose      int32         `nvim:"verbose"`
	Vertical     bool          `nvim:"vertical"`
}

// CommandComplete selects the completion behavior of a user command. All
// cases but CustomList are bare names; CustomList carries a reference to a
// host-side completion function. See :h command-complete.
type CommandComplete struct {
	bridge.Union
	Arglist      *struct{}           `nvim:"arglist"`
	Augroup      *struct{}           `nvim:"augroup"`
	Buffer       *struct{}           `nvim:"buffer"`
	Behave       *struct{}           `nvim:"behave"`
	Color        *struct{}           `nvim:"color"`
	Command      *struct{}           `nvim:"command"`
	Compiler     *struct{}           `nvim:"compiler"`
	Cscope       *struct{}           `nvim:"cscope"`
	Dir          *struct{}           `nvim:"dir"`
	Environment  *struct{}           `nvim:"environment"`
	Event        *struct{}           `nvim:"event"`
	Expression   *struct{}           `nvim:"expression"`
	File         *struct{}           `nvim:"file"`
	FileInPath   *struct{}           `nvim:"file_in_path"`
	Filetype     *struct{}           `nvim:"filetype"`
	Function     *struct{}           `nvim:"function"`
	Help         *struct{}           `nvim:"help"`
	Highlight    *struct{}           `nvim:"highlight"`
	History      *struct{}           `nvim:"history"`
	Locale       *struct{}           `nvim:"locale"`
	Lua          *struct{}           `nvim:"lua"`
	Mapclear     *struct{}           `nvim:"mapclear"`
	Mapping      *struct{}           `nvim:"mapping"`
	Menu         *struct{}           `nvim:"menu"`
	Messages     *struct{}           `nvim:"messages"`
	Option       *struct{}           `nvim:"option"`
	Packadd      *struct{}           `nvim:"packadd"`
	Shellcmd     *struct{}           `nvim:"shellcmd"`
	Sign         *struct{}           `nvim:"sign"`
	Syntax       *struct{}           `nvim:"syntax"`
	Syntime      *struct{}           `nvim:"syntime"`
	Tag          *struct{}           `nvim:"tag"`
	TagListfiles *struct{}           `nvim:"tag_listfiles"`
	User         *struct{}           `nvim:"user"`
	Var          *struct{}           `nvim:"var"`
	CustomList   *object.CallbackRef `nvim:"custom_list"`
}

// CompleteCustomList completes with the candidates produced by a registered
// host-side function.
func CompleteCustomList(ref object.CallbackRef) CommandComplete {
	var c CommandComplete
	c.CustomList = &ref
	return c
}
