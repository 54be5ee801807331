package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA represents a SIMD instruction set architecture.
type ISA uint8

const (
	// Generic represents pure Go scalar code (no SIMD).
	Generic ISA = iota
	// SSE2 represents the x86-64 baseline (128-bit SIMD).
	SSE2
	// NEON represents ARM64 NEON (128-bit SIMD, ASIMD).
	NEON
	// AVX2 represents x86-64 AVX2 (256-bit SIMD).
	AVX2
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case SSE2:
		return "sse2"
	case NEON:
		return "neon"
	case AVX2:
		return "avx2"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "sse2":
		return SSE2, true
	case "neon":
		return NEON, true
	case "avx2":
		return AVX2, true
	default:
		return Generic, false
	}
}

// Width returns the vector register width of an ISA in bytes.
// Generic has no vector width and returns 0.
func (i ISA) Width() int {
	switch i {
	case AVX2:
		return 32
	case SSE2, NEON:
		return 16
	default:
		return 0
	}
}

// Package-level state - initialized once at package init.
// No mutex needed: Go guarantees init() runs before any other code.
var (
	// activeISA is the selected kernel implementation.
	activeISA ISA

	// vectorWidth is the byte width of one vector for activeISA (0 = scalar only).
	vectorWidth int

	// hasOverride is true if RAWBUF_SIMD was set.
	hasOverride bool

	// CPU feature flags (set by platform-specific init)
	hasSSE2  bool // x86-64 baseline
	hasASIMD bool // ARM64 NEON
	hasAVX2  bool // x86-64 AVX2
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	activeISA = chooseISA()
	vectorWidth = activeISA.Width()
}

func chooseISA() ISA {
	// Check for environment override
	if override := os.Getenv("RAWBUF_SIMD"); override != "" {
		if isa, ok := ParseISA(override); ok {
			hasOverride = true
			// Validate the override is available
			if isISAAvailable(isa) {
				return isa
			}
			// Invalid override - fall through to auto-detection
		}
	}

	// Auto-select widest ISA
	return selectBestISA()
}

// isISAAvailable checks if an ISA is supported on this CPU.
func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case SSE2:
		return hasSSE2
	case NEON:
		return hasASIMD
	case AVX2:
		return hasAVX2
	default:
		return false
	}
}

// selectBestISA chooses the widest ISA for the current platform.
func selectBestISA() ISA {
	switch runtime.GOARCH {
	case "amd64":
		if hasAVX2 {
			return AVX2
		}
		if hasSSE2 {
			return SSE2
		}
		return Generic
	case "arm64":
		if hasASIMD {
			return NEON
		}
		return Generic
	default:
		return Generic
	}
}

// ActiveISA returns the currently active ISA.
func ActiveISA() ISA {
	return activeISA
}

// VectorWidth returns the byte width of one vector register for the active
// ISA, or 0 when only the scalar kernel is available.
func VectorWidth() int {
	return vectorWidth
}

// IsOverridden returns true if RAWBUF_SIMD was set.
func IsOverridden() bool {
	return hasOverride
}
