package randomx

import (
	"encoding/binary"
	"math"

	"github.com/mxhess/salvium-core/internal"
)

// programsPerHash and iterationsPerProgram are RandomX's fixed per-hash
// schedule: 8 programs, each run for 2048 iterations, with the register
// file re-hashed into the next program's seed between programs.
const (
	programsPerHash     = 8
	iterationsPerProgram = 2048

	// scratchpadAddrMask masks a scratchpad address down to a 64-byte
	// aligned offset inside the scratchpad. Valid because scratchpadL3Size
	// is a power of two: clearing the low 6 bits of (size-64) leaves every
	// bit below the size's own high bit set, so ANDing with it both
	// aligns to 64 bytes and keeps the result in [0, size-64].
	scratchpadAddrMask = uint64(scratchpadL3Size - 64)

	// exponentBits64 is the float64 exponent field, used to force the "e"
	// register group's exponent into a small, always-finite range.
	exponentBits64 = 0x7FF0000000000000
)

// virtualMachine implements the RandomX virtual machine register file and
// scratchpad described by the instruction set: eight integer registers
// (r0-r7), two groups of four floating-point registers written by
// instructions (f0-f3, e0-e3), and a read-only group (a0-a3) fixed for the
// duration of one program.
type virtualMachine struct {
	reg  [8]uint64  // Integer register file (r0-r7)
	regF [4]float64 // "f" floating-point group (additive accumulator)
	regE [4]float64 // "e" floating-point group (multiplicative accumulator)
	regA [4]float64 // "a" floating-point group, read-only per program
	mem  []byte     // Scratchpad memory (2 MB)
	ds   *dataset   // Dataset reference (fast mode)
	c    *cache     // Cache reference (light mode)

	ma uint64 // Memory address register
	mx uint64 // Memory multiplier / second address register

	// readReg holds the four register indices (each 0-7) this program's
	// entropy selected for scratchpad address mixing and the mx update,
	// reconfigured once per program.
	readReg [4]uint8

	// datasetOffset and eMask are likewise reconfigured once per program:
	// datasetOffset shifts which dataset item each iteration's memory
	// access touches, eMask forces the "e" register group's exponent bits
	// into a finite, normal range on load.
	datasetOffset uint64
	eMask         [2]uint64

	fpRoundingMode uint64 // CFROUND rounding mode (0-3)
}

// init initializes the VM with dataset or cache.
func (vm *virtualMachine) init(ds *dataset, c *cache) {
	vm.ds = ds
	vm.c = c
	vm.reset()
}

// reset clears the VM state for reuse.
func (vm *virtualMachine) reset() {
	for i := range vm.reg {
		vm.reg[i] = 0
	}
	for i := range vm.regF {
		vm.regF[i] = 0
		vm.regE[i] = 0
		vm.regA[i] = 0
	}
	if vm.mem != nil {
		for i := range vm.mem {
			vm.mem[i] = 0
		}
	}
	vm.ma = 0
	vm.mx = 0
	vm.readReg = [4]uint8{}
	vm.datasetOffset = 0
	vm.eMask = [2]uint64{}
	vm.fpRoundingMode = 0
}

// run executes the RandomX algorithm on the input: fill the scratchpad
// from the input hash, then run programsPerHash programs of
// iterationsPerProgram iterations each, re-seeding the VM's program
// entropy and configuration (ma, mx, readReg, datasetOffset, eMask,
// a-registers) from the previous program's final register file between
// programs.
func (vm *virtualMachine) run(input []byte) [32]byte {
	state := vm.initializeScratchpad(input)

	for p := 0; p < programsPerHash; p++ {
		vm.configureProgram(state)
		prog := generateProgram(state)

		for i := range vm.reg {
			vm.reg[i] = 0
		}
		for i := range vm.regF {
			vm.regF[i] = 0
			vm.regE[i] = 0
		}

		for iter := 0; iter < iterationsPerProgram; iter++ {
			vm.runIteration(prog)
		}

		state = vm.rehashRegisters()
	}

	return vm.finalize()
}

// initializeScratchpad hashes input into a 64-byte state and fills the
// scratchpad from it, returning the state so the caller can seed program
// 0's configuration from it.
func (vm *virtualMachine) initializeScratchpad(input []byte) []byte {
	hash := internal.Blake2b512(input)
	vm.fillScratchpadFrom(hash[:])
	return hash[:]
}

// configureProgram derives this program's ma/mx seed, readReg selection,
// datasetOffset, eMask, and read-only a-registers from state, keyed apart
// from the instruction stream itself (generateProgram) so the two
// derivations don't consume the same entropy bytes.
func (vm *virtualMachine) configureProgram(state []byte) {
	seed := make([]byte, 0, len(state)+3)
	seed = append(seed, state...)
	seed = append(seed, 'c', 'f', 'g')
	cfg := internal.Blake2b512(seed)

	for i := 0; i < 4; i++ {
		vm.readReg[i] = cfg[i] % 8
	}
	vm.datasetOffset = binary.LittleEndian.Uint64(cfg[8:16])
	for i := 0; i < 2; i++ {
		// Exponent 0x300 | (top 4 entropy bits << 4): always finite and normal.
		e := binary.LittleEndian.Uint64(cfg[16+8*i : 24+8*i])
		vm.eMask[i] = e&^exponentBits64 | (0x300|(e>>60)<<4)<<52
	}
	vm.ma = binary.LittleEndian.Uint64(cfg[32:40])
	vm.mx = binary.LittleEndian.Uint64(cfg[40:48])

	aEntropy := internal.Blake2b512(cfg[:])
	for i := 0; i < 4; i++ {
		bits := binary.LittleEndian.Uint64(aEntropy[i*8 : i*8+8])
		vm.regA[i] = maskFloat(math.Float64frombits(bits))
	}
}

// rehashRegisters folds the register file into a new 64-byte state for
// the next program's configureProgram/generateProgram seed.
func (vm *virtualMachine) rehashRegisters() []byte {
	buf := make([]byte, 0, 128)
	var b [8]byte
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(b[:], vm.reg[i])
		buf = append(buf, b[:]...)
	}
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(vm.regF[i]))
		buf = append(buf, b[:]...)
	}
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(vm.regE[i]))
		buf = append(buf, b[:]...)
	}
	hash := internal.Blake2b512(buf)
	return hash[:]
}

// runIteration executes one of a program's 2048 iterations: compute
// scratchpad addresses, load registers from the scratchpad, run the
// 256-instruction program body, update mx, mix in a dataset/cache item,
// swap ma/mx, and store the register file back to the scratchpad.
func (vm *virtualMachine) runIteration(prog *program) {
	mixed := vm.reg[vm.readReg[0]] ^ vm.reg[vm.readReg[1]]
	spAddr0 := (vm.mx ^ mixed) & scratchpadAddrMask
	spAddr1 := (vm.ma ^ (mixed >> 32)) & scratchpadAddrMask

	for k := 0; k < 8; k++ {
		vm.reg[k] ^= vm.readMemory(uint32(spAddr0) + uint32(k*8))
	}
	for k := 0; k < 4; k++ {
		fBits := vm.readMemory(uint32(spAddr1) + uint32(k*8))
		vm.regF[k] = maskFloat(math.Float64frombits(fBits))

		eBits := vm.readMemory(uint32(spAddr1) + 32 + uint32(k*8))
		vm.regE[k] = maskExponentE(eBits, vm.eMask[k/2])
	}

	prog.execute(vm)

	vm.mx = (vm.mx ^ (vm.reg[vm.readReg[2]] ^ vm.reg[vm.readReg[3]])) &^ 63

	vm.mixDatasetItem()

	vm.ma, vm.mx = vm.mx, vm.ma

	for k := 0; k < 8; k++ {
		vm.writeMemory(uint32(spAddr1)+uint32(k*8), vm.reg[k])
	}
	for k := 0; k < 4; k++ {
		v := math.Float64bits(vm.regF[k]) ^ math.Float64bits(vm.regE[k])
		vm.writeMemory(uint32(spAddr0)+uint32(k*8), v)
		vm.writeMemory(uint32(spAddr0)+32+uint32(k*8), v)
	}
}

// maskExponentE combines a scratchpad-loaded mantissa/sign with mask's
// exponent bits, forcing "e" register loads into a finite, normal range
// so every result stays finite and normal.
func maskExponentE(raw, mask uint64) float64 {
	bits := (raw &^ uint64(exponentBits64)) | (mask & exponentBits64)
	return math.Float64frombits(bits)
}

// fillScratchpadFrom initializes scratchpad memory by AES-128-encrypting
// (crypto/aes) a rolling 16-byte counter block under the first 16 bytes
// of the given state.
func (vm *virtualMachine) fillScratchpadFrom(state []byte) {
	if len(vm.mem) < scratchpadL3Size {
		return
	}

	aesEnc, err := internal.NewAESEncryptor(state[:16])
	if err != nil {
		return
	}

	block := make([]byte, 16)
	for i := 0; i < scratchpadL3Size; i += 16 {
		binary.LittleEndian.PutUint64(block[0:8], uint64(i))
		binary.LittleEndian.PutUint64(block[8:16], uint64(i+8))
		aesEnc.Encrypt(vm.mem[i:i+16], block)
	}
}

// mixDatasetItem reads the dataset/cache item addressed by ma and
// datasetOffset and XORs it into r0..r7: a direct read in fast mode, a
// freshly computed SuperscalarHash expansion of the cache in light mode.
func (vm *virtualMachine) mixDatasetItem() {
	itemIndex := (vm.ma + vm.datasetOffset) / 64

	var itemData []byte
	if vm.ds != nil {
		itemData = vm.ds.getItem(itemIndex % datasetItems)
	} else if vm.c != nil {
		var item [64]byte
		computeDatasetItem(vm.c, itemIndex%datasetItems, item[:])
		itemData = item[:]
	} else {
		return
	}

	for i := 0; i < 8 && i*8 < len(itemData); i++ {
		val := binary.LittleEndian.Uint64(itemData[i*8 : i*8+8])
		vm.reg[i] ^= val
	}
}

// finalize produces the final hash output by mixing the integer and
// floating-point register groups together before the output Blake2b pass.
func (vm *virtualMachine) finalize() [32]byte {
	for i := 0; i < 8; i++ {
		vm.reg[i] ^= vm.readMemory(uint32(i * 8))
	}

	output := make([]byte, 64)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(output[i*8:i*8+8], vm.reg[i])
	}

	fpOutput := make([]byte, 64)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(fpOutput[i*8:i*8+8], math.Float64bits(vm.regF[i]))
		binary.LittleEndian.PutUint64(fpOutput[32+i*8:32+i*8+8], math.Float64bits(vm.regE[i]))
	}

	full := append(output, fpOutput...)
	return internal.Blake2b256(full)
}

// getMemoryAddress computes memory address for load/store operations.
func (vm *virtualMachine) getMemoryAddress(instr *instruction) uint32 {
	addr := vm.reg[instr.src] + uint64(instr.imm)
	return uint32(addr % scratchpadL3Size)
}

// readMemory reads a 64-bit value from scratchpad memory.
func (vm *virtualMachine) readMemory(addr uint32) uint64 {
	addr = addr % uint32(len(vm.mem))
	addr &= ^uint32(7) // Align to 8 bytes
	if addr+8 > uint32(len(vm.mem)) {
		addr = uint32(len(vm.mem)) - 8
	}
	return binary.LittleEndian.Uint64(vm.mem[addr : addr+8])
}

// writeMemory writes a 64-bit value to scratchpad memory.
func (vm *virtualMachine) writeMemory(addr uint32, value uint64) {
	addr = addr % uint32(len(vm.mem))
	addr &= ^uint32(7) // Align to 8 bytes
	if addr+8 > uint32(len(vm.mem)) {
		addr = uint32(len(vm.mem)) - 8
	}
	binary.LittleEndian.PutUint64(vm.mem[addr:addr+8], value)
}
