package api_test

import (
	stderrors "errors"
	"testing"

	"github.com/nvigo/nvigo/api"
	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/ffi"
	"github.com/nvigo/nvigo/ffi/ffitest"
	"github.com/nvigo/nvigo/object"
	"github.com/nvigo/nvigo/internal/cmem"
)

func TestCommand(t *testing.T) {
	ed := ffitest.Install()
	defer ed.Close()

	if err := api.Command("write"); err != nil {
		t.Fatal(err)
	}
	if err := api.Command(""); err == nil {
		t.Error("empty command accepted")
	}

	calls := ed.Calls()
	if len(calls) != 2 || calls[0].Name != "nvim_command" || calls[0].Failed {
		t.Errorf("calls = %+v", calls)
	}
	if !calls[1].Failed {
		t.Error("failed command not recorded as failed")
	}
}

func TestEval(t *testing.T) {
	ed := ffitest.Install()
	defer ed.Close()

	ed.RespondEval("2 + 2", object.FromInteger(4))
	ed.RespondEval("g:servers", object.FromArray(object.NewArray(
		object.FromGoString("alpha"),
		object.FromGoString("beta"),
	)))

	n, err := api.Eval[int]("2 + 2")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("n = %d", n)
	}

	servers, err := api.Eval[[]string]("g:servers")
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 2 || servers[0] != "alpha" {
		t.Errorf("servers = %v", servers)
	}

	// The stub keeps ownership of canned responses, so a second evaluation
	// must still see the value.
	if _, err := api.Eval[int]("2 + 2"); err != nil {
		t.Errorf("second eval: %v", err)
	}

	_, err = api.Eval[int]("g:missing")
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindBoundary {
		t.Errorf("err = %v, want boundary", err)
	}
}

func TestEvalFailureReportsEditorMessage(t *testing.T) {
	ed := ffitest.Install()
	defer ed.Close()

	ed.FailNext(ffi.ErrorKindException, "E121: undefined variable")
	_, err := api.Eval[int]("g:x")
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatal(err)
	}
	if e.Detail != "E121: undefined variable" {
		t.Errorf("message = %q", e.Detail)
	}
}

func TestExec(t *testing.T) {
	ed := ffitest.Install()
	defer ed.Close()

	ed.RespondExec("messages", "line one\nline two")

	out, err := api.Exec("messages", true)
	if err != nil {
		t.Fatal(err)
	}
	if out != "line one\nline two" {
		t.Errorf("out = %q", out)
	}

	out, err = api.Exec("messages", false)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("suppressed output = %q", out)
	}
}

func TestCallFunction(t *testing.T) {
	ed := ffitest.Install()
	defer ed.Close()

	ed.RespondFunction("strlen", func(args []object.Object) (object.Object, error) {
		if len(args) != 1 {
			t.Fatalf("args = %d", len(args))
		}
		s, err := object.ToGoString(args[0])
		if err != nil {
			return object.Nil(), err
		}
		return object.FromInteger(int64(len(s))), nil
	})

	n, err := api.CallFunction[int64]("strlen", "four")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("n = %d", n)
	}

	if _, err := api.CallFunction[int64]("nosuchfn"); err == nil {
		t.Error("unknown function succeeded")
	}
}

func TestTabPage(t *testing.T) {
	ed := ffitest.Install()
	defer ed.Close()

	tab := api.CurrentTabPage()
	if !tab.IsValid() {
		t.Fatal("current tabpage invalid")
	}

	n, err := tab.Number()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("number = %d", n)
	}

	if err := tab.SetVar("counts", []int{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	var counts []int
	if err := tab.GetVar("counts", &counts); err != nil {
		t.Fatal(err)
	}
	if len(counts) != 3 || counts[2] != 3 {
		t.Errorf("counts = %v", counts)
	}

	if err := tab.DelVar("counts"); err != nil {
		t.Fatal(err)
	}
	if err := tab.GetVar("counts", &counts); err == nil {
		t.Error("read a deleted variable")
	}

	wins, err := tab.ListWins()
	if err != nil {
		t.Fatal(err)
	}
	if len(wins) != 1 {
		t.Fatalf("wins = %v", wins)
	}
	active, err := tab.GetWin()
	if err != nil {
		t.Fatal(err)
	}
	if active != wins[0] {
		t.Errorf("active = %v, wins = %v", active, wins)
	}

	closed := api.TabPage(ed.AddTabPage())
	ed.CloseTabPage(int32(closed))
	if closed.IsValid() {
		t.Error("closed tabpage still valid")
	}
	if _, err := closed.Number(); err == nil {
		t.Error("number of a closed tabpage")
	}
}

func TestGetMode(t *testing.T) {
	ed := ffitest.Install()
	defer ed.Close()

	got, err := api.GetMode()
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != api.ModeNormal || got.Blocking {
		t.Errorf("got = %+v", got)
	}

	ed.SetMode("t", true)
	got, err = api.GetMode()
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != api.ModeTerminal || !got.Blocking {
		t.Errorf("got = %+v", got)
	}
}

func TestHandleRoundTrip(t *testing.T) {
	b := api.Buffer(3)
	o, err := b.EncodeObject()
	if err != nil {
		t.Fatal(err)
	}
	if o.Kind() != object.KindBuffer {
		t.Fatalf("kind = %v", o.Kind())
	}

	var back api.Buffer
	if err := back.DecodeObject(o); err != nil {
		t.Fatal(err)
	}
	if back != b {
		t.Errorf("back = %v", back)
	}

	// Handles decode as integers, but a window is not a buffer.
	if n, err := object.ToInteger(o); err != nil || n != 3 {
		t.Errorf("ToInteger = %d, %v", n, err)
	}
	var w api.Window
	if err := w.DecodeObject(o); err == nil {
		t.Error("buffer decoded as window")
	}
}

// A full session must leave the allocation registry balanced: every value
// that crossed the boundary in either direction is released exactly once.
func TestSessionReleasesEverything(t *testing.T) {
	a0, f0 := cmem.Counters()

	ed := ffitest.Install()
	ed.RespondEval("g:list", object.FromArray(object.NewArray(
		object.FromGoString("one"),
		object.FromGoString("two"),
	)))

	tab := api.CurrentTabPage()
	if err := tab.SetVar("s", "value"); err != nil {
		t.Fatal(err)
	}
	var s string
	if err := tab.GetVar("s", &s); err != nil {
		t.Fatal(err)
	}
	if _, err := api.Eval[[]string]("g:list"); err != nil {
		t.Fatal(err)
	}
	if _, err := api.Eval[int]("boom"); err == nil {
		t.Fatal("expected failure")
	}
	if err := ed.Close(); err != nil {
		t.Fatal(err)
	}

	a1, f1 := cmem.Counters()
	if a1-a0 != f1-f0 {
		t.Errorf("session leaked: %d allocs, %d frees", a1-a0, f1-f0)
	}
}
