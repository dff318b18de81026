package vm

import (
	"strings"
	"testing"

	"github.com/hyeong-lang/hyeong/parser"
	"github.com/hyeong-lang/hyeong/rational"
)

type managerFixture struct {
	m      *StackManager
	out    *strings.Builder
	errOut *strings.Builder
}

func newManagerFixture(input string) *managerFixture {
	f := &managerFixture{out: &strings.Builder{}, errOut: &strings.Builder{}}
	f.m = NewStackManager(strings.NewReader(input), f.out, f.errOut)
	return f
}

func (f *managerFixture) check(t *testing.T, wantOut, wantErr string) {
	t.Helper()
	if err := f.m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := f.out.String(); got != wantOut {
		t.Errorf("stdout = %q, want %q", got, wantOut)
	}
	if got := f.errOut.String(); got != wantErr {
		t.Errorf("stderr = %q, want %q", got, wantErr)
	}
}

func TestManagerPushDup(t *testing.T) {
	f := newManagerFixture("")
	f.m.Push(5, 13) // 65 onto stack 3
	f.m.Duplicate(3, 1)
	f.check(t, "AAA", "")
}

func TestManagerAddMul(t *testing.T) {
	f := newManagerFixture("A")
	f.m.Duplicate(1, 0) // 흑: NaN copied onto stack 0
	f.m.Add(1, 2)       // 항..: the NaN, rendered on stderr
	f.m.Add(1, 1)       // 항.: reads 'A', rendered on stdout
	f.m.Push(1, 1)      // 형.
	f.m.Push(1, 7)      // 형.......
	f.m.Push(2, 2)      // 혀엉..
	f.m.Push(1, 13)     // 형.............
	f.m.Push(3, 9)      // 혀어엉.........
	f.m.Multiply(4, 0)  // 하아아아아앗: 27×13×4×7 = 9828
	f.m.Add(2, 2)       // 하앙..: 9828+1 = 9829 = '♥'
	f.check(t, "A", "너무 커엇...♥")
}

func TestManagerMulRecip(t *testing.T) {
	f := newManagerFixture("밯망희")
	f.m.Push(4, 2)
	f.m.Push(2, 3)
	f.m.Reciprocate(1, 4)
	f.m.Multiply(2, 3)
	f.m.Negate(1, 2)
	f.m.Push(1, 0)
	f.m.Duplicate(1, 0)
	f.m.Negate(5, 2)
	f.m.Add(1, 4)
	f.m.Add(1, 1)
	f.m.Add(1, 1)
	f.m.Add(1, 1)
	f.check(t, "481754758155148", "2너무 커엇...")
}

func TestManagerExitTrigger(t *testing.T) {
	arithmetic := map[string]func(m *StackManager, count, to int){
		"add":         (*StackManager).Add,
		"multiply":    (*StackManager).Multiply,
		"negate":      (*StackManager).Negate,
		"reciprocate": (*StackManager).Reciprocate,
	}
	for name, op := range arithmetic {
		for selected, wantCode := range map[int]int{1: 0, 2: 1} {
			f := newManagerFixture("")
			f.m.Push(1, 5)
			f.m.Duplicate(1, selected)
			f.m.Flush()
			before := f.out.String() + f.errOut.String()
			op(f.m, 3, 7)
			code, exited := f.m.ExitCode()
			if !exited || code != wantCode {
				t.Errorf("%s with stack %d selected: exit = %d, %v, want %d, true", name, selected, code, exited, wantCode)
			}
			f.m.Flush()
			if after := f.out.String() + f.errOut.String(); after != before {
				t.Errorf("%s after exit wrote %q", name, after[len(before):])
			}
			// The latch is final.
			f.m.halt(9)
			if code, _ := f.m.ExitCode(); code != wantCode {
				t.Errorf("exit code overwritten to %d", code)
			}
		}
	}
}

func TestManagerPushDupNeverExit(t *testing.T) {
	f := newManagerFixture("")
	f.m.Push(1, 5)
	f.m.Duplicate(1, 1)
	f.m.Push(2, 3) // renders onto stdout, no exit
	f.m.Duplicate(1, 2)
	if _, exited := f.m.ExitCode(); exited {
		t.Fatal("push/duplicate must never latch an exit code")
	}
}

func TestManagerProcessHearts(t *testing.T) {
	f := newManagerFixture("")

	// Leaves never touch the stacks.
	if got := f.m.ProcessHearts(parser.Nil{}, 3); got.Kind != HeartNil {
		t.Errorf("Nil = %v", got)
	}
	if got := f.m.ProcessHearts(parser.Heart{ID: 6}, 3); got.Kind != HeartJump || got.ID != 6 {
		t.Errorf("Heart = %v", got)
	}
	if got := f.m.ProcessHearts(parser.Return{}, 3); got.Kind != HeartReturn {
		t.Errorf("Return = %v", got)
	}

	// Equals pops once and descends left on a match.
	f.m.Push(1, 4)
	got := f.m.ProcessHearts(parser.Equals{Left: parser.Heart{ID: 1}, Right: parser.Heart{ID: 2}}, 4)
	if got.ID != 1 {
		t.Errorf("equal comparison chose %v", got)
	}

	// LessThan pops once; 2 < 4 descends left.
	f.m.Push(1, 2)
	got = f.m.ProcessHearts(parser.LessThan{Left: parser.Heart{ID: 1}, Right: parser.Heart{ID: 2}}, 4)
	if got.ID != 1 {
		t.Errorf("less comparison chose %v", got)
	}

	// An empty stack pops NaN, which compares false both ways.
	got = f.m.ProcessHearts(parser.Equals{Left: parser.Heart{ID: 1}, Right: parser.Heart{ID: 2}}, 0)
	if got.ID != 2 {
		t.Errorf("NaN equality chose %v", got)
	}
	got = f.m.ProcessHearts(parser.LessThan{Left: parser.Heart{ID: 1}, Right: parser.Heart{ID: 2}}, 0)
	if got.ID != 2 {
		t.Errorf("NaN order chose %v", got)
	}
}

func TestManagerNegateRestoresOrder(t *testing.T) {
	f := newManagerFixture("")
	f.m.Push(1, 1)
	f.m.Push(1, 2)
	f.m.Push(1, 3)
	f.m.Negate(2, 9) // -(3+2) = -5 onto stack 9; stack 3 becomes [1, -2, -3]

	nine := f.m.stack(9)
	if v := nine.Pop(); !v.Equal(rational.FromInt(-5)) {
		t.Errorf("stack 9 top = %v, want -5", v)
	}
	three := f.m.stack(3)
	for _, want := range []int64{-3, -2, 1} {
		if v := three.Pop(); !v.Equal(rational.FromInt(want)) {
			t.Errorf("stack 3 pop = %v, want %d", v, want)
		}
	}
}

func TestManagerDuplicatePeeksStdin(t *testing.T) {
	f := newManagerFixture("AB")
	f.m.Duplicate(1, 0) // selected 3 is empty: copies NaN onto stack 0
	f.m.Duplicate(2, 5) // peeks the buffered NaN, selects 5

	if f.m.Selected() != 5 {
		t.Fatalf("selected = %d, want 5", f.m.Selected())
	}
	five := f.m.stack(5)
	if v := five.Pop(); !v.IsNaN() {
		t.Errorf("stack 5 top = %v, want NaN", v)
	}
	if v := five.Pop(); !v.IsNaN() {
		t.Errorf("stack 5 next = %v, want NaN", v)
	}
	// Stack 0 still holds the NaN copy; beneath it the stream is intact.
	zero := f.m.stack(0)
	if v := zero.Pop(); !v.IsNaN() {
		t.Errorf("stack 0 top = %v, want NaN", v)
	}
	if v := zero.Pop(); !v.Equal(rational.FromInt('A')) {
		t.Errorf("stack 0 next = %v, want 'A'", v)
	}
}
