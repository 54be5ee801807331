//go:build amd64

package simd

import "golang.org/x/sys/cpu"

func init() {
	hasSSE2 = true // amd64 baseline
	hasAVX2 = cpu.X86.HasAVX2
	initCapabilities()
}
