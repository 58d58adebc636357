// Package mocks provides centralized mock implementations for testing.
//
// Store mocks are built on testify/mock so tests can assert call
// expectations. Service, JWT, hashing and delivery mocks use function
// fields: set the field for the behaviour a test needs and leave the rest
// nil.
//
//	jwtService := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string, typ auth.TokenType) (*auth.Claims, error) {
//	        return &auth.Claims{UserID: userID}, nil
//	    },
//	}
package mocks
