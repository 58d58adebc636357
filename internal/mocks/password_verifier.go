package mocks

import (
	"github.com/uetodo/uetodo-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordHasher for testing. Hash
// prefixes the password with "hashed:" unless HashFn is set, and Compare
// accepts exactly that form unless CompareFn is set.
type MockPasswordVerifier struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCalledWith stores the arguments passed to Compare for verification
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordVerifier)(nil)

// Hash implements auth.PasswordHasher
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordVerifier
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return auth.ErrPasswordMismatch
}

// MockCodeGenerator implements auth.CodeGenerator, returning Codes in order
// and then repeating the last one.
type MockCodeGenerator struct {
	Codes []string
	Err   error
	calls int
}

var _ auth.CodeGenerator = (*MockCodeGenerator)(nil)

// Generate implements auth.CodeGenerator
func (m *MockCodeGenerator) Generate() (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Codes) == 0 {
		return "000000", nil
	}
	i := m.calls
	if i >= len(m.Codes) {
		i = len(m.Codes) - 1
	}
	m.calls++
	return m.Codes[i], nil
}
