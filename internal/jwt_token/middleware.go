package jwttoken

import (
	authmw "hospital/pkg/platform/middleware/auth"
)

type middlewareValidator struct {
	service *JWTService
}

// NewMiddlewareValidator exposes service to the auth middleware, which only
// sees the username and the already checked role.
func NewMiddlewareValidator(service *JWTService) authmw.JWTValidator {
	return middlewareValidator{service: service}
}

func (v middlewareValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	claims, err := v.service.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{Username: claims.Username, Role: claims.Role}, nil
}
