package vm

import (
	"strings"
	"testing"
)

func TestMapFilterReduce(t *testing.T) {
	src := `
xs = [1, 2, 3, 4, 5]
doubled = map(xs, fn(x) { return x * 2 })
evens = filter(doubled, fn(x) { return x % 4 == 0 })
total = reduce(evens, fn(acc, x) { return acc + x }, 0)
print(total)
`
	if got := run(t, src); strings.TrimSpace(got) != "12" {
		t.Fatalf("got %q, want 12", got)
	}
}

func TestRetrySucceedsEventually(t *testing.T) {
	src := `
fn mk() {
	attempts = 0
	flaky = fn() {
		attempts = attempts + 1
		if attempts < 3 {
			x = 1 / 0
		}
		return attempts
	}
	return flaky
}
flaky = mk()
print(retry(5, flaky))
`
	if got := run(t, src); strings.TrimSpace(got) != "3" {
		t.Fatalf("got %q, want 3", got)
	}
}

func TestRetryExhaustsAndRaises(t *testing.T) {
	src := `
fn alwaysFails() {
	x = 1 / 0
}
retry(2, alwaysFails)
`
	msg := runErr(t, src)
	if !strings.Contains(msg, "Division by zero.") {
		t.Fatalf("expected the underlying error to surface, got %q", msg)
	}
}

func TestParallelBlockRunsEachCallSequentially(t *testing.T) {
	src := `
fn mk() {
	order = []
	tag = fn(n) { order = append(order, n) return n }
	parallel { tag(1) tag(2) tag(3) }
	return order
}
print(mk())
`
	if got := run(t, src); strings.TrimSpace(got) != "[1, 2, 3]" {
		t.Fatalf("got %q, want [1, 2, 3]", got)
	}
}

func TestAppendLawPreservesOriginal(t *testing.T) {
	src := `xs = [1, 2, 3] ys = append(xs, 4) print(len(xs)) print(len(ys))`
	if got := run(t, src); strings.TrimSpace(got) != "3\n4" {
		t.Fatalf("got %q, want 3\\n4", got)
	}
}

func TestTypeAndLenBuiltins(t *testing.T) {
	src := `print(type(1)) print(type("s")) print(type([1])) print(type({})) print(type(nil)) print(len("hello"))`
	got := run(t, src)
	want := "number\nstring\nlist\nmap\nnil\n5\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringUtilityNatives(t *testing.T) {
	src := `
print(str(42))
print(upper("hi"))
print(lower("HI"))
print(trim("  hi  "))
print(starts_with("hello", "he"))
print(ends_with("hello", "lo"))
print(join(["a", "b", "c"], "-"))
print(split("a-b-c", "-"))
print(contains("hello", "ell"))
print(num("3.5") + 1)
print(bool(0))
print(bool("x"))
`
	got := run(t, src)
	want := "42\nHI\nhi\nhi\ntrue\ntrue\na-b-c\n[a, b, c]\ntrue\n4.5\nfalse\ntrue\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestListUtilityNatives(t *testing.T) {
	src := `
xs = [3, 1, 2]
print(sort(xs))
print(contains(xs, 1))
ys = [1, 2, 3]
print(pop(ys))
print(len(ys))
m = {"a": 1, "b": 2}
print(keys(m))
print(values(m))
print(contains(m, "a"))
`
	got := run(t, src)
	want := "[1, 2, 3]\ntrue\n3\n2\n[a, b]\n[1, 2]\ntrue\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
