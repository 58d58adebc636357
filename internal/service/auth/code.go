package auth

import (
	"fmt"

	nanoid "github.com/jaevor/go-nanoid"
)

// CodeLength is the number of digits in an emailed one-time code.
const CodeLength = 6

// CodeGenerator produces one-time numeric codes for email verification and password reset.
type CodeGenerator interface {
	Generate() (string, error)
}

type nanoidCodeGenerator struct {
	generate func() string
}

// NewCodeGenerator returns a generator of CodeLength-digit codes backed by a CSPRNG.
func NewCodeGenerator() (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII("0123456789", CodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create code generator: %w", err)
	}
	return &nanoidCodeGenerator{generate: gen}, nil
}

// Generate implements CodeGenerator.
func (g *nanoidCodeGenerator) Generate() (string, error) {
	return g.generate(), nil
}
