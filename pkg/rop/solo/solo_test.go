package solo

import (
	"errors"
	"testing"

	"github.com/ib-77/checkchain/pkg/rop"
)

func TestCheck(t *testing.T) {
	t.Parallel()
	if res := Check(func() bool { return true }); !res.IsSuccess() || !res.Result() {
		t.Fatalf("expected success, got %+v", res)
	}
	res := Check(func() bool { return false })
	if !res.IsFailure() || !errors.Is(res.Err(), rop.ErrCheckFailed) {
		t.Fatalf("expected failure, got %+v", res)
	}
}

func TestCheck_PanicPropagates(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected panic boom, got %v", r)
		}
	}()
	Check(func() bool { panic("boom") })
	t.Fatalf("unreachable")
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	tests := []struct {
		name      string
		predicate func() (bool, error)
		success   bool
		failure   bool
		fault     bool
	}{
		{"true", func() (bool, error) { return true, nil }, true, false, false},
		{"false", func() (bool, error) { return false, nil }, false, true, false},
		{"error", func() (bool, error) { return true, boom }, false, false, true},
		{"panic", func() (bool, error) { panic(boom) }, false, false, true},
		{"panic value", func() (bool, error) { panic(42) }, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.predicate)
			if res.IsSuccess() != tt.success || res.IsFailure() != tt.failure || res.IsFault() != tt.fault {
				t.Fatalf("got success=%v failure=%v fault=%v err=%v",
					res.IsSuccess(), res.IsFailure(), res.IsFault(), res.Err())
			}
			if tt.fault && !rop.IsFaultError(res.Err()) {
				t.Fatalf("fault must carry *rop.FaultError, got %v", res.Err())
			}
		})
	}
}

func TestFinally(t *testing.T) {
	t.Parallel()
	describe := func(r rop.Result[int]) string {
		return Finally(r,
			func(v int) string { return "ok" },
			func(err error) string { return "failed: " + err.Error() },
			func(err error) string { return "fault" })
	}

	if got := describe(Succeed(1)); got != "ok" {
		t.Fatalf("got %q", got)
	}
	if got := describe(Fail[int](errors.New("low"))); got != "failed: low" {
		t.Fatalf("got %q", got)
	}
	if got := describe(Fault[int](errors.New("x"))); got != "fault" {
		t.Fatalf("got %q", got)
	}
}
