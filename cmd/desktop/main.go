// Command desktop is a front panel for the SAP-1: registers, memory and the
// output register drawn as blinkenlights, with a single-step and a slow
// free-running clock.
//
// Keys: SPACE single step, A toggle auto-run, R reset and reload.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"gosap/pkg/asm"
	"gosap/pkg/compiler"
	"gosap/pkg/cpu"
)

const demoSource = "a=5;b=7;c=a+b;print c;"

// clockDivider slows the auto-run clock to two instructions per second at
// 60 fps, slow enough to watch the registers move.
const clockDivider = 30

type Game struct {
	vm      *cpu.CPU
	program []byte

	running bool
	tick    int
	lastErr error

	face font.Face
}

func (g *Game) reload() {
	g.vm.Reset()
	g.vm.Load(g.program)
	g.running = false
	g.tick = 0
	g.lastErr = nil
}

func (g *Game) step() {
	_, _, err := g.vm.Step()
	if err != nil {
		g.lastErr = err
		g.running = false
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.running = !g.running
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}

	if g.running && !g.vm.Halted {
		g.tick++
		if g.tick%clockDivider == 0 {
			g.step()
		}
	}
	return nil
}

// leds renders an 8-bit value as a row of filled/empty lamps.
func leds(v uint8, bits int) string {
	var b strings.Builder
	for i := bits - 1; i >= 0; i-- {
		if v&(1<<i) != 0 {
			b.WriteString("● ")
		} else {
			b.WriteString("○ ")
		}
	}
	return b.String()
}

func (g *Game) print(screen *ebiten.Image, x, y int, clr color.Color, format string, args ...any) {
	text.Draw(screen, fmt.Sprintf(format, args...), g.face, x, y, clr)
}

func (g *Game) Draw(screen *ebiten.Image) {
	white := color.White
	amber := color.RGBA{R: 0xFF, G: 0xA3, B: 0x00, A: 0xFF}
	green := color.RGBA{R: 0x00, G: 0xE4, B: 0x36, A: 0xFF}

	g.print(screen, 16, 24, white, "SAP-1 FRONT PANEL")

	regs := []struct {
		name string
		val  uint8
		bits int
	}{
		{"A  ", g.vm.A, 8},
		{"B  ", g.vm.B, 8},
		{"IR ", g.vm.IR, 8},
		{"PC ", g.vm.PC, 4},
		{"MAR", g.vm.MAR, 4},
	}
	y := 56
	for _, r := range regs {
		g.print(screen, 16, y, white, "%s %02X  %s", r.name, r.val, leds(r.val, r.bits))
		y += 18
	}
	g.print(screen, 16, y+8, amber, "OUT %02X  %s  (%d)", g.vm.Out, leds(g.vm.Out, 8), g.vm.Out)

	// Memory, one cell per row, with PC and MAR markers.
	for i := 0; i < cpu.MemSize; i++ {
		marks := ""
		if uint8(i) == g.vm.PC {
			marks += " <PC"
		}
		if uint8(i) == g.vm.MAR {
			marks += " <MAR"
		}
		g.print(screen, 340, 56+i*18, white, "%X: %02X%s", i, g.vm.Memory[i], marks)
	}

	status := "READY"
	clr := color.Color(white)
	switch {
	case g.lastErr != nil:
		status = "ERROR: " + g.lastErr.Error()
		clr = amber
	case g.vm.Halted:
		status = "HALTED"
		clr = amber
	case g.running:
		status = "RUNNING"
		clr = green
	}
	g.print(screen, 16, 380, clr, "%s", status)
	g.print(screen, 16, 404, white, "SPACE step   A auto-run   R reset")
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 480, 420
}

// loadProgram compiles a .toy file, assembles any other file, or falls back
// to the built-in demo when no path is given.
func loadProgram(path string) ([]byte, error) {
	if path == "" {
		_, code, err := compiler.Compile(demoSource)
		return code, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".toy") {
		_, code, err := compiler.Compile(string(source))
		return code, err
	}
	code, _, err := asm.Assemble(string(source))
	return code, err
}

func main() {
	inPath := flag.String("in", "", "program to load (.toy compiled, otherwise assembled; default: built-in demo)")
	flag.Parse()

	program, err := loadProgram(*inPath)
	if err != nil {
		log.Fatalf("failed to load program: %v", err)
	}

	game := &Game{
		vm:      cpu.New(cpu.Config{}),
		program: program,
		face:    basicfont.Face7x13,
	}
	game.reload()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(960, 840)
	ebiten.SetWindowTitle("SAP-1 Front Panel")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
