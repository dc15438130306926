// Package activationcode generates the numeric codes sent to users to activate their account.
package activationcode

import (
	"crypto/rand"
	"io"
)

// Length is the number of digits in a code.
const Length = 4

// Generator draws codes from a random source.
type Generator struct {
	length int
	src    io.Reader
}

// NewGenerator returns a Generator producing Length-digit codes from crypto/rand.
func NewGenerator() *Generator {
	return &Generator{length: Length, src: rand.Reader}
}

// Generate returns a code of independent, uniformly drawn digits 0-9.
// It panics if the random source fails, as crypto/rand never does in practice.
func (g *Generator) Generate() string {
	out := make([]byte, g.length)
	buf := make([]byte, 1)
	for i := 0; i < g.length; {
		if _, err := io.ReadFull(g.src, buf); err != nil {
			panic("activationcode: random source failed: " + err.Error())
		}
		// 250 is the largest multiple of 10 below 256
		if buf[0] >= 250 {
			continue
		}
		out[i] = '0' + buf[0]%10
		i++
	}
	return string(out)
}
