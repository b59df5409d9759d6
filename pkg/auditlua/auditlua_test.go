package auditlua

import (
	"bytes"
	"strings"
	"testing"

	"src.teel.sh/pkg/must"
	"src.teel.sh/pkg/store"
	"src.teel.sh/pkg/testutil"
)

func setup(t *testing.T) (*Runtime, store.DBStore, *bytes.Buffer) {
	t.Helper()
	st, cleanup := store.MustGetTempStore()
	t.Cleanup(cleanup)
	var out bytes.Buffer
	r := New(st, &out)
	t.Cleanup(r.Close)
	return r, st, &out
}

func TestAuditModule(t *testing.T) {
	r, st, out := setup(t)
	err := r.DoString(`
		local seq = audit.store("hello")
		local seq2 = audit.store("boot", "system")
		print(seq, seq2, audit.count())
		print(audit.get(seq), audit.source(seq), audit.source(seq2))
		print(audit.get(100), audit.source(100))
	`)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\t2\t2\nhello\tlua\tsystem\nnil\tnil\n"
	if out.String() != want {
		t.Errorf("output %q, want %q", out.String(), want)
	}
	rec, err := st.Record(2)
	if err != nil || rec.Source != "system" || rec.Text != "boot" {
		t.Errorf("store has (%v, %v)", rec, err)
	}
}

func TestDebug(t *testing.T) {
	r, _, out := setup(t)
	must.OK(r.DoString(`print(audit.debug())`))
	if r.Debug() {
		t.Errorf("debug on by default")
	}
	must.OK(r.DoString(`print(audit.debug(true))`))
	if !r.Debug() {
		t.Errorf("debug not turned on")
	}
	must.OK(r.DoString(`audit.debug(false)`))
	if r.Debug() {
		t.Errorf("debug not turned off")
	}
	if out.String() != "false\ntrue\n" {
		t.Errorf("output %q", out.String())
	}
}

func TestSharedVar(t *testing.T) {
	r, st, out := setup(t)
	must.OK(r.DoString(`
		print(audit.var("greeting"))
		audit.var("greeting", "hi")
		print(audit.var("greeting"))
	`))
	if v, err := st.SharedVar("greeting"); v != "hi" || err != nil {
		t.Errorf("shared var is (%q, %v)", v, err)
	}
	must.OK(r.DoString(`audit.var("greeting", nil)`))
	if _, err := st.SharedVar("greeting"); err == nil {
		t.Errorf("shared var not deleted")
	}
	if out.String() != "nil\nhi\n" {
		t.Errorf("output %q", out.String())
	}
}

func TestOnSubmit(t *testing.T) {
	r, st, _ := setup(t)
	must.OK(r.DoString(`
		function on_submit(line)
			if line:sub(1, 1) ~= "#" then
				audit.store(string.upper(line), "hook")
			end
		end
	`))
	for _, line := range []string{"ls", "# comment", "exit"} {
		if err := r.OnSubmit(line); err != nil {
			t.Errorf("OnSubmit(%q): %v", line, err)
		}
	}
	recs, err := st.Records(0, 100)
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, rec := range recs {
		texts = append(texts, rec.Source+":"+rec.Text)
	}
	if got := strings.Join(texts, ","); got != "hook:LS,hook:EXIT" {
		t.Errorf("records %s", got)
	}
}

func TestOnSubmit_Undefined(t *testing.T) {
	r, _, _ := setup(t)
	if err := r.OnSubmit("x"); err != nil {
		t.Errorf("OnSubmit without hook: %v", err)
	}
}

func TestOnSubmit_Error(t *testing.T) {
	r, _, _ := setup(t)
	must.OK(r.DoString(`function on_submit(line) error("bad line: " .. line) end`))
	err := r.OnSubmit("x")
	if err == nil || !strings.Contains(err.Error(), "bad line: x") {
		t.Errorf("OnSubmit -> %v, want error from the hook", err)
	}
}

func TestSandbox(t *testing.T) {
	r, _, _ := setup(t)
	for _, code := range []string{
		`io.write("x")`,
		`os.exit(1)`,
		`dofile("/etc/passwd")`,
		`load("return 1")()`,
		`require("os")`,
	} {
		if err := r.DoString(code); err == nil {
			t.Errorf("%s succeeded", code)
		}
	}
	must.OK(r.DoString(`local t = {3, 1, 2}; table.sort(t); assert(math.max(t[1], 0) == 1)`))
}

func TestNoStore(t *testing.T) {
	var out bytes.Buffer
	r := New(nil, &out)
	defer r.Close()
	err := r.DoString(`audit.store("x")`)
	if err == nil || !strings.Contains(err.Error(), ErrNoStore.Error()) {
		t.Errorf("audit.store without store -> %v", err)
	}
	// debug works without a store.
	must.OK(r.DoString(`audit.debug(true)`))
}

func TestDoFile(t *testing.T) {
	r, _, out := setup(t)
	path := testutil.TempFile(t, "hooks.lua")
	must.WriteFile(path, `print("loaded")`)
	must.OK(r.DoFile(path))
	if out.String() != "loaded\n" {
		t.Errorf("output %q", out.String())
	}
	if err := r.DoFile(path + ".missing"); err == nil {
		t.Errorf("DoFile of missing file succeeded")
	}
}

func TestArgumentChecks(t *testing.T) {
	r, _, _ := setup(t)
	for _, code := range []string{`audit.store()`, `audit.get("x")`, `audit.var()`} {
		if err := r.DoString(code); err == nil {
			t.Errorf("%s succeeded", code)
		}
	}
}

const checksPrelude = `
	function checkers.port(p)
		return type(p) == "number" and p > 0 and p < 0x10000
	end
	function checkers.broken(x)
		error("broken checker")
	end
	socket = setmetatable({}, {__type = "socket"})
	function take(sock, port, str)
		checks("socket", "port", "?string")
	end
	function either(x)
		checks("number|string")
	end
	function maybe(x)
		checks("?number|table")
	end
	function skip(x, y)
		checks("?", "number")
	end
	function broken(x)
		checks("broken")
	end
	function inner(x)
		checks(2, "number")
	end
	function outer(x)
		inner()
	end
`

var checksTests = []struct {
	code    string
	wantErr string
}{
	{`take(socket, 1024, "hello")`, ""},
	{`take(socket, 1024)`, ""},
	{`take({}, 1024, "x")`, "bad argument #1 to take (socket expected, got table)"},
	{`take(socket, -1, "x")`, "bad argument #2 to take (port expected, got number)"},
	{`take(socket, 1024, {})`, "bad argument #3 to take (string expected, got table)"},
	{`either(1) either("a")`, ""},
	{`either(true)`, "(number|string expected, got boolean)"},
	{`maybe() maybe(1) maybe({})`, ""},
	{`maybe("a")`, "(number|table expected, got string)"},
	{`skip(print, 1)`, ""},
	{`skip(nil, "a")`, "bad argument #2"},
	{`broken(1)`, "(broken expected, got number)"},
	{`outer(1)`, ""},
	{`outer("a")`, "bad argument #1 to outer (number expected, got string)"},
	{`local function f(x) checks(1, {}) end f(1)`, "string expected, got table"},
}

func TestChecks(t *testing.T) {
	for _, test := range checksTests {
		r, _, _ := setup(t)
		must.OK(r.DoString(checksPrelude))
		err := r.DoString(test.code)
		if test.wantErr == "" {
			if err != nil {
				t.Errorf("%s -> error %v", test.code, err)
			}
		} else if err == nil {
			t.Errorf("%s succeeded, want error containing %q", test.code, test.wantErr)
		} else if !strings.Contains(err.Error(), test.wantErr) {
			t.Errorf("%s -> error %q, want it to contain %q", test.code, err, test.wantErr)
		}
	}
}

func TestChecks_ReportsCaller(t *testing.T) {
	r, _, _ := setup(t)
	must.OK(r.DoString(checksPrelude))
	err := r.DoString("\n\ntake(socket, 0)")
	if err == nil || !strings.Contains(err.Error(), ":3:") {
		t.Errorf("error %v does not point at line 3", err)
	}
}
