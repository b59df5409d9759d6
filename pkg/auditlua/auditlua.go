// Package auditlua runs Lua hook scripts with access to the audit store.
//
// Scripts run in a sandbox with only the base, table, string and math
// libraries, and get a global module named audit:
//
//	audit.store(text [, source])  -- append a record, returns its seq
//	audit.get(seq)                -- text of a record, or nil
//	audit.source(seq)             -- source of a record, or nil
//	audit.count()                 -- number of records
//	audit.debug([on])             -- get or set the debug flag
//	audit.var(name [, value])     -- get or set a shared variable
//
// Scripts can also check the parameters of their own functions with
// checks(t1, ..., tn) and register custom type names in the checkers table.
//
// A script may define a global function on_submit(line), which is called
// with every submitted line.
package auditlua

import (
	"errors"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"src.teel.sh/pkg/logutil"
	"src.teel.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[auditlua] ")

// ErrNoStore is raised in Lua when the audit functions are called without a
// store.
var ErrNoStore = errors.New("no audit store")

// DefaultSource is the source of records stored by scripts without an
// explicit one.
const DefaultSource = "lua"

// Name of the hook called on each submitted line.
const onSubmit = "on_submit"

// Runtime is a sandboxed Lua state. It is not safe for concurrent use.
type Runtime struct {
	L     *lua.LState
	store storedefs.Store
	out   io.Writer
	debug bool
	// Custom type checkers used by checks.
	checkers *lua.LTable
}

// New creates a Runtime. The store may be nil, in which case audit functions
// raise errors. Output of print goes to out.
func New(store storedefs.Store, out io.Writer) *Runtime {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	r := &Runtime{L: L, store: store, out: out}
	L.SetGlobal("print", L.NewFunction(r.print))
	L.SetGlobal("audit", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"store":  r.storeRecord,
		"get":    r.get,
		"source": r.source,
		"count":  r.count,
		"debug":  r.setDebug,
		"var":    r.sharedVar,
	}))
	r.openChecks()
	return r
}

// DoFile runs a script file.
func (r *Runtime) DoFile(path string) error {
	return protect(func() error { return r.L.DoFile(path) })
}

// DoString runs a script.
func (r *Runtime) DoString(code string) error {
	return protect(func() error { return r.L.DoString(code) })
}

// OnSubmit calls the on_submit hook with line. It does nothing if the hook is
// not defined.
func (r *Runtime) OnSubmit(line string) error {
	fn, ok := r.L.GetGlobal(onSubmit).(*lua.LFunction)
	if !ok {
		return nil
	}
	if r.debug {
		logger.Printf("%s(%q)", onSubmit, line)
	}
	return protect(func() error {
		return r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LString(line))
	})
}

// Debug returns the debug flag set by scripts.
func (r *Runtime) Debug() bool { return r.debug }

// Close releases the Lua state.
func (r *Runtime) Close() { r.L.Close() }

func protect(f func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()
	return f()
}

func (r *Runtime) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

func (r *Runtime) checkStore(L *lua.LState) storedefs.Store {
	if r.store == nil {
		L.RaiseError("%v", ErrNoStore)
	}
	return r.store
}

func (r *Runtime) storeRecord(L *lua.LState) int {
	text := L.CheckString(1)
	source := L.OptString(2, DefaultSource)
	seq, err := r.checkStore(L).AddRecord(source, text)
	if err != nil {
		L.RaiseError("%v", err)
	}
	if r.debug {
		logger.Printf("stored record %d from %s", seq, source)
	}
	L.Push(lua.LNumber(seq))
	return 1
}

// record fetches the record whose seq is the first argument. A missing record
// is nil.
func (r *Runtime) record(L *lua.LState) (storedefs.Record, bool) {
	seq := L.CheckInt(1)
	rec, err := r.checkStore(L).Record(seq)
	if err == storedefs.ErrNoMatchingRecord {
		return rec, false
	} else if err != nil {
		L.RaiseError("%v", err)
	}
	return rec, true
}

func (r *Runtime) get(L *lua.LState) int {
	if rec, ok := r.record(L); ok {
		L.Push(lua.LString(rec.Text))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (r *Runtime) source(L *lua.LState) int {
	if rec, ok := r.record(L); ok {
		L.Push(lua.LString(rec.Source))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (r *Runtime) count(L *lua.LState) int {
	n, err := r.checkStore(L).Count()
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (r *Runtime) setDebug(L *lua.LState) int {
	if L.GetTop() >= 1 {
		r.debug = L.ToBool(1)
		logger.Println("debug set to", r.debug)
	}
	L.Push(lua.LBool(r.debug))
	return 1
}

func (r *Runtime) sharedVar(L *lua.LState) int {
	name := L.CheckString(1)
	st := r.checkStore(L)
	if L.GetTop() >= 2 {
		var err error
		if L.Get(2) == lua.LNil {
			err = st.DelSharedVar(name)
		} else {
			err = st.SetSharedVar(name, L.CheckString(2))
		}
		if err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}
	value, err := st.SharedVar(name)
	if err == storedefs.ErrNoVar {
		L.Push(lua.LNil)
		return 1
	} else if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LString(value))
	return 1
}
