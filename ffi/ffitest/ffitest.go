// Package ffitest provides an in-process stub editor for exercising the call
// convention without a running editor. The stub owns its side of the boundary
// the way the real editor does: incoming non-owning views are cloned before
// being stored, returned payloads are fresh owning values, and failures are
// reported only through the error slot.
package ffitest

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nvigo/nvigo"
	"github.com/nvigo/nvigo/bridge"
	"github.com/nvigo/nvigo/ffi"
	"github.com/nvigo/nvigo/object"
)

// CallRecord describes one boundary crossing observed by the stub.
type CallRecord struct {
	Name   string
	Failed bool
}

type tabState struct {
	number int64
	vars   map[string]object.Object
	wins   []int32
	valid  bool
}

type markState struct {
	buf      int32
	ns       int64
	row, col int64
	details  object.Object
}

// Editor is the stub. All methods are safe for concurrent use.
type Editor struct {
	mu sync.Mutex

	log *zap.Logger

	evalResults map[string]object.Object
	execOutputs map[string]string
	functions   map[string]func(args []object.Object) (object.Object, error)

	mode     string
	blocking bool

	tabs       map[int32]*tabState
	currentTab int32
	nextHandle int32

	namespaces  map[string]int64
	nextNs      int64
	decorations map[int64]object.Object
	marks       map[int64]*markState
	nextMark    int64

	failKind ffi.ErrorKind
	failMsg  string
	failNext bool

	calls   []CallRecord
	closers []func() error
	closed  bool
}

// New creates a stub editor with a single valid tabpage.
func New() *Editor {
	e := &Editor{
		log:         nvigo.Logger().Named("ffitest"),
		evalResults: make(map[string]object.Object),
		execOutputs: make(map[string]string),
		functions:   make(map[string]func([]object.Object) (object.Object, error)),
		mode:        "n",
		tabs:        make(map[int32]*tabState),
		nextHandle:  1,
		namespaces:  make(map[string]int64),
		nextNs:      1,
		decorations: make(map[int64]object.Object),
		marks:       make(map[int64]*markState),
		nextMark:    1,
	}
	e.currentTab = e.addTab()
	return e
}

// Install assigns every ffi function slot to this stub and returns the stub.
func Install() *Editor {
	e := New()
	e.InstallSlots()
	return e
}

// InstallSlots points the ffi package-level slots at this stub.
func (e *Editor) InstallSlots() {
	ffi.CommandFn = e.command
	ffi.EvalFn = e.eval
	ffi.ExecFn = e.exec
	ffi.CallFunctionFn = e.callFunction
	ffi.CallDictFnFn = e.callDictFunction
	ffi.GetModeFn = e.getMode
	ffi.GetCurrentTabpageFn = e.getCurrentTabpage
	ffi.CreateNamespaceFn = e.createNamespace
	ffi.GetNamespacesFn = e.getNamespaces
	ffi.SetDecorationProviderFn = e.setDecorationProvider
	ffi.BufAddHighlightFn = e.bufAddHighlight
	ffi.BufClearNamespaceFn = e.bufClearNamespace
	ffi.BufDelExtmarkFn = e.bufDelExtmark
	ffi.BufGetExtmarkByIDFn = e.bufGetExtmarkByID
	ffi.BufGetExtmarksFn = e.bufGetExtmarks
	ffi.BufSetExtmarkFn = e.bufSetExtmark
	ffi.TabpageDelVarFn = e.tabpageDelVar
	ffi.TabpageGetNumberFn = e.tabpageGetNumber
	ffi.TabpageGetVarFn = e.tabpageGetVar
	ffi.TabpageGetWinFn = e.tabpageGetWin
	ffi.TabpageIsValidFn = e.tabpageIsValid
	ffi.TabpageListWinsFn = e.tabpageListWins
	ffi.TabpageSetVarFn = e.tabpageSetVar
}

// RespondEval registers the value returned for an expression. The stub keeps
// ownership of value until Close.
func (e *Editor) RespondEval(expr string, value object.Object) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if old, ok := e.evalResults[expr]; ok {
		old.Free()
	}
	e.evalResults[expr] = value
}

// RespondExec registers the captured output for a block of commands.
func (e *Editor) RespondExec(src, output string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.execOutputs[src] = output
}

// RespondFunction registers a function callable through CallFunctionFn. The
// handler borrows its arguments and must return an owning result.
func (e *Editor) RespondFunction(name string, fn func(args []object.Object) (object.Object, error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.functions[name] = fn
}

// SetMode sets the mode reported by GetModeFn.
func (e *Editor) SetMode(mode string, blocking bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
	e.blocking = blocking
}

// FailNext makes the next slot-carrying call fail with the given class and
// message instead of doing its work.
func (e *Editor) FailNext(kind ffi.ErrorKind, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failNext = true
	e.failKind = kind
	e.failMsg = msg
}

// AddTabPage creates a new valid tabpage and returns its handle.
func (e *Editor) AddTabPage() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addTab()
}

// CloseTabPage invalidates a tabpage handle.
func (e *Editor) CloseTabPage(handle int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.tabs[handle]; ok {
		t.valid = false
	}
}

// Calls returns the boundary crossings observed so far.
func (e *Editor) Calls() []CallRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]CallRecord, len(e.calls))
	copy(out, e.calls)
	return out
}

// OnClose registers a teardown hook run by Close.
func (e *Editor) OnClose(fn func() error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closers = append(e.closers, fn)
}

// Close releases every value the stub owns and runs teardown hooks,
// aggregating their failures.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	for _, o := range e.evalResults {
		o.Free()
	}
	e.evalResults = nil
	for _, t := range e.tabs {
		for _, v := range t.vars {
			v.Free()
		}
		t.vars = nil
	}
	for _, o := range e.decorations {
		o.Free()
	}
	e.decorations = nil
	for _, m := range e.marks {
		m.details.Free()
	}
	e.marks = nil

	var err error
	for _, fn := range e.closers {
		err = multierr.Append(err, fn())
	}
	return err
}

func (e *Editor) addTab() int32 {
	h := e.nextHandle
	e.nextHandle++
	e.tabs[h] = &tabState{
		number: int64(len(e.tabs) + 1),
		vars:   make(map[string]object.Object),
		wins:   []int32{1000 + h},
		valid:  true,
	}
	return h
}

// record logs the call and applies a pending FailNext. Returns true when the
// call should proceed.
func (e *Editor) record(name string, slot *ffi.Error) bool {
	failed := false
	if e.failNext && slot != nil {
		slot.Set(e.failKind, e.failMsg)
		e.failNext = false
		failed = true
	}
	e.calls = append(e.calls, CallRecord{Name: name, Failed: failed})
	e.log.Debug("editor call", zap.String("fn", name), zap.Bool("failed", failed))
	return !failed
}

func (e *Editor) fail(slot *ffi.Error, kind ffi.ErrorKind, format string, args ...any) {
	slot.Set(kind, fmt.Sprintf(format, args...))
	if len(e.calls) > 0 {
		e.calls[len(e.calls)-1].Failed = true
	}
}

func (e *Editor) command(cmd object.NonOwning[object.String], slot *ffi.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_command", slot) {
		return
	}
	if cmd.View().Len() == 0 {
		e.fail(slot, ffi.ErrorKindValidation, "empty command")
	}
}

func (e *Editor) eval(expr object.NonOwning[object.String], slot *ffi.Error) object.Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_eval", slot) {
		return object.Nil()
	}
	src := expr.View().String()
	if res, ok := e.evalResults[src]; ok {
		return res.Clone()
	}
	e.fail(slot, ffi.ErrorKindException, "E15: invalid expression: %s", src)
	return object.Nil()
}

func (e *Editor) exec(src object.NonOwning[object.String], output bool, slot *ffi.Error) object.String {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_exec", slot) {
		return object.String{}
	}
	if !output {
		return object.String{}
	}
	return object.NewString(e.execOutputs[src.View().String()])
}

func (e *Editor) callFunction(fn object.NonOwning[object.String], args object.NonOwning[object.Array], slot *ffi.Error) object.Object {
	e.mu.Lock()
	handler, ok := e.functions[fn.View().String()]
	if !e.record("nvim_call_function", slot) {
		e.mu.Unlock()
		return object.Nil()
	}
	if !ok {
		e.fail(slot, ffi.ErrorKindException, "E117: unknown function: %s", fn.View().String())
		e.mu.Unlock()
		return object.Nil()
	}
	e.mu.Unlock()

	res, err := handler(args.View().Items())
	if err != nil {
		e.mu.Lock()
		e.fail(slot, ffi.ErrorKindException, "%s", err)
		e.mu.Unlock()
		return object.Nil()
	}
	return res
}

func (e *Editor) callDictFunction(dict object.NonOwning[object.Object], fn object.NonOwning[object.String], args object.NonOwning[object.Array], slot *ffi.Error) object.Object {
	_ = dict
	return e.callFunction(fn, args, slot)
}

func (e *Editor) getMode() object.Dictionary {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("nvim_get_mode", nil)
	return object.NewDictionary(
		object.Pair("mode", object.FromGoString(e.mode)),
		object.Pair("blocking", object.FromBool(e.blocking)),
	)
}

func (e *Editor) getCurrentTabpage() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("nvim_get_current_tabpage", nil)
	return e.currentTab
}

func (e *Editor) tab(handle int32, slot *ffi.Error) *tabState {
	t, ok := e.tabs[handle]
	if !ok || !t.valid {
		e.fail(slot, ffi.ErrorKindValidation, "invalid tabpage id: %d", handle)
		return nil
	}
	return t
}

func (e *Editor) tabpageDelVar(tab int32, name object.NonOwning[object.String], slot *ffi.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_tabpage_del_var", slot) {
		return
	}
	t := e.tab(tab, slot)
	if t == nil {
		return
	}
	key := name.View().String()
	v, ok := t.vars[key]
	if !ok {
		e.fail(slot, ffi.ErrorKindValidation, "variable not found: %s", key)
		return
	}
	v.Free()
	delete(t.vars, key)
}

func (e *Editor) tabpageGetNumber(tab int32, slot *ffi.Error) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_tabpage_get_number", slot) {
		return 0
	}
	t := e.tab(tab, slot)
	if t == nil {
		return 0
	}
	return t.number
}

func (e *Editor) tabpageGetVar(tab int32, name object.NonOwning[object.String], slot *ffi.Error) object.Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_tabpage_get_var", slot) {
		return object.Nil()
	}
	t := e.tab(tab, slot)
	if t == nil {
		return object.Nil()
	}
	key := name.View().String()
	v, ok := t.vars[key]
	if !ok {
		e.fail(slot, ffi.ErrorKindValidation, "variable not found: %s", key)
		return object.Nil()
	}
	return v.Clone()
}

func (e *Editor) tabpageGetWin(tab int32, slot *ffi.Error) int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_tabpage_get_win", slot) {
		return 0
	}
	t := e.tab(tab, slot)
	if t == nil {
		return 0
	}
	return t.wins[0]
}

func (e *Editor) tabpageIsValid(tab int32) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("nvim_tabpage_is_valid", nil)
	t, ok := e.tabs[tab]
	return ok && t.valid
}

func (e *Editor) tabpageListWins(tab int32, slot *ffi.Error) object.Array {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_tabpage_list_wins", slot) {
		return object.Array{}
	}
	t := e.tab(tab, slot)
	if t == nil {
		return object.Array{}
	}
	items := make([]object.Object, len(t.wins))
	for i, w := range t.wins {
		items[i] = object.FromHandle(object.KindWindow, w)
	}
	return object.NewArray(items...)
}

func (e *Editor) tabpageSetVar(tab int32, name object.NonOwning[object.String], value object.NonOwning[object.Object], slot *ffi.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_tabpage_set_var", slot) {
		return
	}
	t := e.tab(tab, slot)
	if t == nil {
		return
	}
	key := name.View().String()
	if old, ok := t.vars[key]; ok {
		old.Free()
	}
	// The view stays owned by the caller, so the stored copy is a clone.
	t.vars[key] = value.View().Clone()
}

func (e *Editor) createNamespace(name object.NonOwning[object.String]) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("nvim_create_namespace", nil)
	key := name.View().String()
	if id, ok := e.namespaces[key]; ok {
		return id
	}
	id := e.nextNs
	e.nextNs++
	e.namespaces[key] = id
	return id
}

func (e *Editor) getNamespaces() object.Dictionary {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("nvim_get_namespaces", nil)
	names := make([]string, 0, len(e.namespaces))
	for name := range e.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]object.KeyValuePair, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, object.Pair(name, object.FromInteger(e.namespaces[name])))
	}
	return object.NewDictionary(pairs...)
}

func (e *Editor) setDecorationProvider(nsID int64, opts object.NonOwning[object.Object], slot *ffi.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_set_decoration_provider", slot) {
		return
	}
	if old, ok := e.decorations[nsID]; ok {
		old.Free()
	}
	e.decorations[nsID] = opts.View().Clone()
}

func (e *Editor) bufAddHighlight(buf int32, nsID int64, hlGroup object.NonOwning[object.String], line, colStart, colEnd int64, slot *ffi.Error) int64 {
	_ = buf
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_buf_add_highlight", slot) {
		return 0
	}
	if hlGroup.View().Len() == 0 {
		e.fail(slot, ffi.ErrorKindValidation, "empty highlight group")
		return 0
	}
	_ = line
	_, _ = colStart, colEnd
	if nsID == 0 {
		nsID = e.nextNs
		e.nextNs++
	}
	return nsID
}

func (e *Editor) bufClearNamespace(buf int32, nsID, lineStart, lineEnd int64, slot *ffi.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_buf_clear_namespace", slot) {
		return
	}
	for id, m := range e.marks {
		if m.buf != buf || m.ns != nsID {
			continue
		}
		if m.row >= lineStart && (lineEnd == -1 || m.row < lineEnd) {
			m.details.Free()
			delete(e.marks, id)
		}
	}
}

func (e *Editor) bufSetExtmark(buf int32, nsID, line, col int64, opts object.NonOwning[object.Object], slot *ffi.Error) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_buf_set_extmark", slot) {
		return 0
	}

	var given struct {
		ID *uint32 `nvim:"id"`
	}
	if err := bridge.Decode(opts.View(), &given); err != nil {
		e.fail(slot, ffi.ErrorKindValidation, "%s", err)
		return 0
	}

	id := e.nextMark
	if given.ID != nil {
		id = int64(*given.ID)
	} else {
		e.nextMark++
	}
	if old, ok := e.marks[id]; ok {
		old.details.Free()
	}
	e.marks[id] = &markState{
		buf:     buf,
		ns:      nsID,
		row:     line,
		col:     col,
		details: opts.View().Clone(),
	}
	return id
}

func (e *Editor) bufDelExtmark(buf int32, nsID, extmarkID int64, slot *ffi.Error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_buf_del_extmark", slot) {
		return false
	}
	m, ok := e.marks[extmarkID]
	if !ok || m.buf != buf || m.ns != nsID {
		return false
	}
	m.details.Free()
	delete(e.marks, extmarkID)
	return true
}

func wantDetails(opts object.NonOwning[object.Object]) bool {
	var o struct {
		Details bool `nvim:"details,default"`
	}
	if err := bridge.Decode(opts.View(), &o); err != nil {
		return false
	}
	return o.Details
}

func (e *Editor) bufGetExtmarkByID(buf int32, nsID, extmarkID int64, opts object.NonOwning[object.Object], slot *ffi.Error) object.Array {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_buf_get_extmark_by_id", slot) {
		return object.Array{}
	}
	m, ok := e.marks[extmarkID]
	if !ok || m.buf != buf || m.ns != nsID {
		return object.Array{}
	}
	items := []object.Object{
		object.FromInteger(m.row),
		object.FromInteger(m.col),
	}
	if wantDetails(opts) {
		items = append(items, m.details.Clone())
	}
	return object.NewArray(items...)
}

// markPos resolves a range endpoint: an integer names an extmark, a
// two-element array is a (row, col) position with col -1 meaning the end of
// the row.
func (e *Editor) markPos(pos object.Object, slot *ffi.Error) (row, col int64, ok bool) {
	switch pos.Kind() {
	case object.KindInteger:
		id, _ := object.ToInteger(pos)
		m, found := e.marks[id]
		if !found {
			e.fail(slot, ffi.ErrorKindValidation, "invalid extmark id: %d", id)
			return 0, 0, false
		}
		return m.row, m.col, true
	case object.KindArray:
		items, err := object.ToArrayView(pos)
		if err != nil || len(items) != 2 {
			e.fail(slot, ffi.ErrorKindValidation, "invalid mark position")
			return 0, 0, false
		}
		row, _ = object.ToInteger(items[0])
		col, _ = object.ToInteger(items[1])
		if col == -1 {
			col = math.MaxInt64
		}
		return row, col, true
	default:
		e.fail(slot, ffi.ErrorKindValidation, "invalid mark position kind: %s", pos.Kind())
		return 0, 0, false
	}
}

func (e *Editor) bufGetExtmarks(buf int32, nsID int64, start, end object.NonOwning[object.Object], opts object.NonOwning[object.Object], slot *ffi.Error) object.Array {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.record("nvim_buf_get_extmarks", slot) {
		return object.Array{}
	}
	startRow, startCol, ok := e.markPos(start.View(), slot)
	if !ok {
		return object.Array{}
	}
	endRow, endCol, ok := e.markPos(end.View(), slot)
	if !ok {
		return object.Array{}
	}

	details := wantDetails(opts)
	ids := make([]int64, 0, len(e.marks))
	for id, m := range e.marks {
		if m.buf != buf || m.ns != nsID {
			continue
		}
		if m.row < startRow || (m.row == startRow && m.col < startCol) {
			continue
		}
		if m.row > endRow || (m.row == endRow && m.col > endCol) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := e.marks[ids[i]], e.marks[ids[j]]
		if a.row != b.row {
			return a.row < b.row
		}
		if a.col != b.col {
			return a.col < b.col
		}
		return ids[i] < ids[j]
	})

	tuples := make([]object.Object, 0, len(ids))
	for _, id := range ids {
		m := e.marks[id]
		items := []object.Object{
			object.FromInteger(id),
			object.FromInteger(m.row),
			object.FromInteger(m.col),
		}
		if details {
			items = append(items, m.details.Clone())
		}
		tuples = append(tuples, object.FromArray(object.NewArray(items...)))
	}
	return object.NewArray(tuples...)
}
