package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosap/pkg/cpu"
)

// compileAndRun compiles src, loads the program into a fresh CPU and runs it
// to halt, returning the machine.
func compileAndRun(t *testing.T, src string) *cpu.CPU {
	t.Helper()
	_, code, err := Compile(src)
	require.NoError(t, err)

	c := cpu.New(cpu.Config{})
	c.Load(code)
	_, err = c.Run(0)
	require.NoError(t, err)
	require.True(t, c.Halted, "program did not reach HLT")
	return c
}

func TestCompileAddition(t *testing.T) {
	c := compileAndRun(t, "a=5;b=7;c=a+b;print c;")
	assert.Equal(t, uint8(12), c.Out)
}

func TestCompileGeneratedAssembly(t *testing.T) {
	assembly, _, err := Compile("a=5;b=7;c=a+b;print c;")
	require.NoError(t, err)

	want := []string{
		"LDA #5",
		"STA 14",
		"LDA #7",
		"STA 13",
		"LDA 14",
		"ADD 13",
		"STA 12",
		"LDA 12",
		"OUT",
		"HLT",
	}
	var got []string
	for _, line := range strings.Split(strings.TrimSpace(assembly), "\n") {
		got = append(got, strings.TrimSpace(line))
	}
	assert.Equal(t, want, got)
}

func TestCompileCopyAliasesWithoutCode(t *testing.T) {
	aliased, _, err := Compile("a=5;b=a;print b;")
	require.NoError(t, err)
	direct, _, err := Compile("a=5;print a;")
	require.NoError(t, err)
	assert.Equal(t, direct, aliased, "a plain copy should emit no instructions")

	c := compileAndRun(t, "a=5;b=a;print b;")
	assert.Equal(t, uint8(5), c.Out)
}

func TestCompileReassignmentReusesAddress(t *testing.T) {
	c := compileAndRun(t, "a=5;a=9;print a;")
	assert.Equal(t, uint8(9), c.Out)
}

func TestCompileAccumulatorWrap(t *testing.T) {
	c := compileAndRun(t, "a=250;b=10;c=a+b;print c;")
	assert.Equal(t, uint8(4), c.Out, "260 must wrap to 4")
}

func TestCompileMultiplePrints(t *testing.T) {
	c := compileAndRun(t, "a=3;print a;b=4;print b;")
	// OUT holds the value of the last print.
	assert.Equal(t, uint8(4), c.Out)
}

func TestCompileUndefinedVariable(t *testing.T) {
	_, _, err := Compile("print x;")
	var undef *UndefinedVariableError
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, "x", undef.Name)

	_, _, err = Compile("a=1;c=a+q;")
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, "q", undef.Name)
}

func TestCompileOutOfMemory(t *testing.T) {
	// Seven constant assignments: 15 code bytes plus 7 pooled constants
	// cannot coexist with variables reaching down to address 8.
	src := "a=1;b=2;c=3;d=4;e=5;f=6;g=7;"
	_, _, err := Compile(src)
	var oom *OutOfMemoryError
	require.True(t, errors.As(err, &oom), "expected *OutOfMemoryError, got %v", err)
}

func TestCompileNewlineSeparatedStatements(t *testing.T) {
	c := compileAndRun(t, "a = 2;\nb = 3;\nc = a + b;\nprint c;\n")
	assert.Equal(t, uint8(5), c.Out)
}
