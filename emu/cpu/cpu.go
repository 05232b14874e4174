package cpu

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"cvm8/emu/display"
	"cvm8/emu/fault"
	"cvm8/emu/keypad"
	"cvm8/emu/memory"

	"go.uber.org/zap"
)

const (
	ProgramStart = 0x200
	MaxROMSize   = memory.Size - ProgramStart
	fontSize     = 80
	glyphSize    = 5
)

var FontSet = [fontSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Beeper is the audio sink. Beep must not block.
type Beeper interface {
	Beep()
}

type BeeperFunc func()

func (f BeeperFunc) Beep() { f() }

// Config carries the collaborators and limits of an EMU. Zero values are
// usable: no stack limit, time-seeded RND, no logging, silent audio.
type Config struct {
	MaxStackDepth int
	Rand          *rand.Rand
	Logger        *zap.Logger
	Beeper        Beeper
}

// EMU owns the whole machine: registers, memory and display. It is not safe
// for concurrent use.
type EMU struct {
	state   State
	mem     *memory.Memory
	display *display.Buffer

	maxStack int
	rand     *rand.Rand
	beeper   Beeper
	log      *zap.Logger
	cycles   uint64
}

// New returns a machine with the font loaded and pc at the program start.
func New(cfg Config) *EMU {
	emu := &EMU{
		state:    newState(),
		mem:      memory.New(),
		display:  display.New(display.Width, display.Height),
		maxStack: cfg.MaxStackDepth,
		rand:     cfg.Rand,
		beeper:   cfg.Beeper,
		log:      cfg.Logger,
	}
	if emu.rand == nil {
		emu.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if emu.beeper == nil {
		emu.beeper = BeeperFunc(func() {})
	}
	if emu.log == nil {
		emu.log = zap.NewNop()
	}
	emu.loadFont()
	return emu
}

// NewEMU builds a machine and loads the ROM at romPath into it.
func NewEMU(romPath string, cfg Config) (*EMU, error) {
	emu := New(cfg)
	if err := emu.LoadROM(romPath); err != nil {
		return nil, err
	}
	return emu, nil
}

func (emu *EMU) loadFont() {
	// the font always fits below the program area
	_ = emu.mem.Load(0, FontSet[:])
}

func (emu *EMU) LoadROM(filename string) error {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := emu.LoadProgram(rom); err != nil {
		return fmt.Errorf("loading %s: %w", filename, err)
	}
	return nil
}

// LoadProgram places rom verbatim at the program start.
func (emu *EMU) LoadProgram(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	if err := emu.mem.Load(ProgramStart, rom); err != nil {
		return err
	}
	emu.log.Info("program loaded", zap.Int("bytes", len(rom)), zap.String("offset", fmt.Sprintf("%#04x", ProgramStart)))
	return nil
}

// State returns a copy of the registers.
func (emu *EMU) State() State {
	return emu.state.clone()
}

// Display returns the frame buffer for presenters to read.
func (emu *EMU) Display() *display.Buffer {
	return emu.display
}

// Memory returns the address space for inspection.
func (emu *EMU) Memory() *memory.Memory {
	return emu.mem
}

// SetKeys replaces the key latch.
func (emu *EMU) SetKeys(keys keypad.Keys) {
	emu.state.Keys = keys
}

// Cycles returns the number of instructions executed so far.
func (emu *EMU) Cycles() uint64 {
	return emu.cycles
}

// EmulateCycle fetches, decodes and executes exactly one instruction. On
// error nothing has been changed and the error is a *MachineError wrapping
// one of the fault kinds.
func (emu *EMU) EmulateCycle() error {
	pc := emu.state.PC
	word, err := emu.fetch()
	if err != nil {
		return &MachineError{Err: err, PC: pc}
	}
	in := Decode(word)

	if ce := emu.log.Check(zap.DebugLevel, "exec"); ce != nil {
		ce.Write(
			zap.String("pc", fmt.Sprintf("%#04x", pc)),
			zap.String("opcode", fmt.Sprintf("%04x", word)),
		)
	}

	if err := emu.opCodeParser(in); err != nil {
		return &MachineError{Err: err, PC: pc, Opcode: word}
	}
	emu.cycles++
	return nil
}

func (emu *EMU) opCodeParser(in Instruction) error {
	s := &emu.state
	x, y := in.X, in.Y
	F := FlagRegister

	switch in.Family() {
	case 0x0000:
		switch in.Imm8 {
		case 0xE0:
			emu.display.Clear()
			s.PC += 2
		case 0xEE:
			depth := len(s.Stack)
			if depth == 0 {
				return &fault.StackUnderflowError{}
			}
			s.PC = s.Stack[depth-1] + 2
			s.Stack = s.Stack[:depth-1]
		default:
			return opCodeError(in)
		}
	case 0x1000:
		s.PC = in.Addr
	case 0x2000:
		if emu.maxStack > 0 && len(s.Stack) >= emu.maxStack {
			return &fault.StackOverflowError{Depth: len(s.Stack)}
		}
		s.Stack = append(s.Stack, s.PC)
		s.PC = in.Addr
	case 0x3000:
		emu.skipIf(s.V[x] == in.Imm8)
	case 0x4000:
		emu.skipIf(s.V[x] != in.Imm8)
	case 0x5000:
		// only 5xy0 is defined; other low nibbles are not treated as SE
		if in.Imm4 != 0 {
			return opCodeError(in)
		}
		emu.skipIf(s.V[x] == s.V[y])
	case 0x6000:
		s.V[x] = in.Imm8
		s.PC += 2
	case 0x7000:
		s.V[x] += in.Imm8
		s.PC += 2
	case 0x8000:
		switch in.Imm4 {
		case 0x0:
			s.V[x] = s.V[y]
		case 0x1:
			s.V[x] |= s.V[y]
		case 0x2:
			s.V[x] &= s.V[y]
		case 0x3:
			s.V[x] ^= s.V[y]
		case 0x4:
			sum := uint16(s.V[x]) + uint16(s.V[y])
			s.V[F] = boolToFlag(sum > 0xFF)
			s.V[x] = uint8(sum)
		case 0x5:
			s.V[F] = boolToFlag(s.V[x] > s.V[y])
			s.V[x] -= s.V[y]
		case 0x6:
			s.V[F] = s.V[x] & 0x1
			s.V[x] >>= 1
		case 0x7:
			s.V[F] = boolToFlag(s.V[y] > s.V[x])
			s.V[x] = s.V[y] - s.V[x]
		case 0xE:
			s.V[F] = (s.V[x] & 0x80) >> 7
			s.V[x] <<= 1
		default:
			return opCodeError(in)
		}
		s.PC += 2
	case 0x9000:
		// likewise only 9xy0
		if in.Imm4 != 0 {
			return opCodeError(in)
		}
		emu.skipIf(s.V[x] != s.V[y])
	case 0xA000:
		s.I = in.Addr
		s.PC += 2
	case 0xB000:
		s.PC = in.Addr + uint16(s.V[0])
	case 0xC000:
		s.V[x] = uint8(emu.rand.Intn(256)) & in.Imm8
		s.PC += 2
	case 0xD000:
		if err := emu.draw(s.V[x], s.V[y], in.Imm4); err != nil {
			return err
		}
		s.PC += 2
	case 0xE000:
		if in.Imm8 != 0x9E && in.Imm8 != 0xA1 {
			return opCodeError(in)
		}
		key := s.V[x]
		if int(key) >= keypad.Count {
			return &fault.RangeError{Space: fault.SpaceKeypad, Addr: int(key), Limit: keypad.Count}
		}
		// 9E skips when pressed, A1 when released
		emu.skipIf(s.Keys[key] == (in.Imm8 == 0x9E))
	case 0xF000:
		return emu.miscParser(in)
	default:
		return opCodeError(in)
	}
	return nil
}

// miscParser handles the Fx family: timers, the index register and bulk
// register/memory transfers.
func (emu *EMU) miscParser(in Instruction) error {
	s := &emu.state
	x := in.X

	switch in.Imm8 {
	case 0x07:
		s.V[x] = s.DelayTimer
	case 0x0A:
		return &fault.UnsupportedOpcodeError{Opcode: in.Word, Name: "LD Vx, K"}
	case 0x15:
		s.DelayTimer = s.V[x]
	case 0x18:
		s.SoundTimer = s.V[x]
	case 0x1E:
		s.I += uint16(s.V[x])
	case 0x29:
		s.I = uint16(s.V[x]) * glyphSize
	case 0x33:
		if err := emu.checkSpan(s.I, 3); err != nil {
			return err
		}
		v := s.V[x]
		emu.mustWrite(s.I, v/100)
		emu.mustWrite(s.I+1, (v%100)/10)
		emu.mustWrite(s.I+2, v%10)
	case 0x55:
		if err := emu.checkSpan(s.I, int(x)+1); err != nil {
			return err
		}
		for i := 0; i <= int(x); i++ {
			emu.mustWrite(s.I+uint16(i), s.V[i])
		}
	case 0x65:
		if err := emu.checkSpan(s.I, int(x)+1); err != nil {
			return err
		}
		for i := 0; i <= int(x); i++ {
			s.V[i] = emu.mustRead(s.I + uint16(i))
		}
	default:
		return opCodeError(in)
	}
	s.PC += 2
	return nil
}

// draw XORs an n-row sprite from memory at I onto the display with its top
// left corner at (ox, oy), wrapping at the edges. VF reports whether any lit
// cell was turned off.
func (emu *EMU) draw(ox, oy, n uint8) error {
	s := &emu.state
	var sprite [15]uint8
	for row := 0; row < int(n); row++ {
		b, err := emu.mem.Read(s.I + uint16(row))
		if err != nil {
			return err
		}
		sprite[row] = b
	}

	w, h := emu.display.Width(), emu.display.Height()
	s.V[FlagRegister] = 0
	for row := 0; row < int(n); row++ {
		for bit := 0; bit < 8; bit++ {
			if sprite[row]&(0x80>>bit) == 0 {
				continue
			}
			px := (int(ox) + bit) % w
			py := (int(oy) + row) % h
			on, err := emu.display.IsOn(px, py)
			if err != nil {
				return err
			}
			if on {
				s.V[FlagRegister] = 1
			}
			if err := emu.display.Set(px, py, !on); err != nil {
				return err
			}
		}
	}
	return nil
}

func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.state.PC += 4
	} else {
		emu.state.PC += 2
	}
}

// checkSpan verifies that n bytes starting at addr are all addressable.
func (emu *EMU) checkSpan(addr uint16, n int) error {
	if last := int(addr) + n - 1; last >= emu.mem.Size() {
		first := int(addr)
		if first < emu.mem.Size() {
			first = emu.mem.Size()
		}
		return &fault.RangeError{Space: fault.SpaceMemory, Addr: first, Limit: emu.mem.Size()}
	}
	return nil
}

// mustWrite and mustRead are only called on spans already checked.
func (emu *EMU) mustWrite(addr uint16, v uint8) {
	if err := emu.mem.Write(addr, v); err != nil {
		panic(err)
	}
}

func (emu *EMU) mustRead(addr uint16) uint8 {
	v, err := emu.mem.Read(addr)
	if err != nil {
		panic(err)
	}
	return v
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func opCodeError(in Instruction) error {
	return &fault.UnknownOpcodeError{Opcode: in.Word}
}
