package auditlua

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// openChecks installs the global checks function and the checkers table.
//
// checks([level,] t1, ..., tn), called inside a Lua function f, raises an
// error unless the i-th parameter of f conforms to ti. A type string is one
// or more names joined with "|". A name matches the Lua type of the value,
// the __type field of its metatable, or a function in checkers that returns
// true for the value. A leading "?" also accepts nil, and "?" alone accepts
// anything. The optional level selects the function whose parameters are
// checked; it defaults to 1, the function calling checks.
func (r *Runtime) openChecks() {
	r.checkers = r.L.NewTable()
	r.L.SetGlobal("checkers", r.checkers)
	r.L.SetGlobal("checks", r.L.NewFunction(r.checks))
}

func (r *Runtime) checks(L *lua.LState) int {
	level, first := 1, 1
	if L.Get(1).Type() == lua.LTNumber {
		level, first = L.CheckInt(1), 2
	}
	dbg, ok := L.GetStack(level)
	if !ok {
		L.RaiseError("checks() must be called within a Lua function")
	}
	for i := first; L.Get(i) != lua.LNil; i++ {
		L.CheckType(i, lua.LTString)
		want := L.Get(i).String()
		narg := i - first + 1
		_, v := L.GetLocal(dbg, narg)

		if strings.HasPrefix(want, "?") {
			if want == "?" || v == lua.LNil {
				continue
			}
			want = want[1:]
		}
		if !r.conforms(L, v, want) {
			r.checkError(L, dbg, level, narg, want, v.Type().String())
		}
	}
	return 0
}

// conforms reports whether v matches any of the "|"-separated names in want.
func (r *Runtime) conforms(L *lua.LState, v lua.LValue, want string) bool {
	names := strings.Split(want, "|")
	got := v.Type().String()
	for _, name := range names {
		if name == got {
			return true
		}
	}
	if t, ok := L.GetMetaField(v, "__type").(lua.LString); ok {
		for _, name := range names {
			if name == string(t) {
				return true
			}
		}
	}
	for _, name := range names {
		checker, ok := r.checkers.RawGetString(name).(*lua.LFunction)
		if !ok {
			continue
		}
		L.Push(checker)
		L.Push(v)
		// A checker that raises an error does not accept the value.
		if err := L.PCall(1, 1, nil); err != nil {
			if r.debug {
				logger.Printf("checker %s: %v", name, err)
			}
			continue
		}
		ok = lua.LVAsBool(L.Get(-1))
		L.Pop(1)
		if ok {
			return true
		}
	}
	return false
}

// checkError raises an error that points at the call to the checked function.
func (r *Runtime) checkError(L *lua.LState, dbg *lua.Debug, level, narg int, want, got string) {
	name := "?"
	if _, err := L.GetInfo("n", dbg, lua.LNil); err == nil && dbg.Name != "" {
		name = dbg.Name
	}
	L.Error(lua.LString(fmt.Sprintf(
		"bad argument #%d to %s (%s expected, got %s)", narg, name, want, got)), level+2)
}
