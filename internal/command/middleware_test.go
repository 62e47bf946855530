package command

import (
	"strings"
	"testing"
)

func TestApplyOrder(t *testing.T) {
	var trace []string
	tag := func(name string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(args string) string {
				trace = append(trace, name)
				return c.Invoke(args)
			})
		}
	}

	cmd := Apply(Echo(), tag("outer"), tag("inner"))
	if got := cmd.Invoke("x"); got != "x" {
		t.Errorf("Invoke = %q", got)
	}
	if got := strings.Join(trace, ","); got != "outer,inner" {
		t.Errorf("order = %s", got)
	}
	if cmd.Name() != "echo" {
		t.Errorf("Name = %q", cmd.Name())
	}
}

func TestRoot(t *testing.T) {
	base := Ping()
	wrapped := Apply(base, WithLogger(), WithRecover("oops"))
	if Root(wrapped) != base {
		t.Error("Root did not reach the base command")
	}
	if Root(base) != base {
		t.Error("Root of an unwrapped command must be itself")
	}
}

func TestRootReachesTemplate(t *testing.T) {
	cmd := Apply(Canned("rules", "Show the rules", "Be nice, {args}."), WithRecover("oops"), WithLogger())
	if _, ok := cmd.(Templated); ok {
		t.Fatal("middleware should hide the template")
	}
	tpl, ok := Root(cmd).(Templated)
	if !ok {
		t.Fatal("Root did not reach the canned command")
	}
	if tpl.Template() != "Be nice, {args}." {
		t.Errorf("Template = %q", tpl.Template())
	}
	if _, ok := Root(Apply(Ping(), WithLogger())).(Templated); ok {
		t.Error("built-in reported a template")
	}
}

func TestWithRecover(t *testing.T) {
	boom := Func("boom", "", func(string) string { panic("kaboom") })
	cmd := Apply(boom, WithRecover("Something went wrong."))

	if got := cmd.Invoke(""); got != "Something went wrong." {
		t.Errorf("Invoke = %q", got)
	}
	if got := Apply(Ping(), WithRecover("x")).Invoke(""); got != "pong" {
		t.Errorf("Invoke = %q", got)
	}
}
