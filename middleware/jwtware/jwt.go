// Package jwtware pulls raw bearer tokens out of fiber requests.
package jwtware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultAuthScheme  = "Bearer"
	DefaultCookieName  = "AUTH_TOKEN"
	DefaultTokenLookup = "header:" + fiber.HeaderAuthorization + ",cookie:" + DefaultCookieName
)

var ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")

// JWTExtractor returns the raw token found in one request location
type JWTExtractor func(c *fiber.Ctx) (string, error)

// GetExtractors parses a lookup definition such as
// "header:Authorization,cookie:AUTH_TOKEN,query:token". Extractors are
// returned in declaration order. Unknown sources are skipped.
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := DefaultAuthScheme
	if len(authSchemes) > 0 && strings.TrimSpace(authSchemes[0]) != "" {
		authScheme = strings.TrimSpace(authSchemes[0])
	}

	if strings.TrimSpace(tokenLookup) == "" {
		tokenLookup = DefaultTokenLookup
	}

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}

		switch source {
		case "header":
			extractors = append(extractors, jwtFromHeader(name, authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(name))
		case "param":
			extractors = append(extractors, jwtFromParam(name))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(name))
		}
	}

	return extractors
}

// ExtractRawToken runs the extractors in order and returns the first
// non empty token.
func ExtractRawToken(c *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	for _, extractor := range extractors {
		raw, err := extractor(c)
		if raw != "" && err == nil {
			return raw, nil
		}
	}
	return "", ErrJWTMissingOrMalformed
}

// jwtFromHeader accepts "<scheme> <token>" only. Any other header value
// is treated as absent so later extractors still get a chance.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		l := len(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			if token := strings.TrimSpace(a[l+1:]); token != "" {
				return token, nil
			}
		}
		return "", ErrJWTMissingOrMalformed
	}
}

func jwtFromQuery(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromParam(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromCookie(name string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// CookieName returns the first cookie source declared in tokenLookup,
// or DefaultCookieName when there is none.
func CookieName(tokenLookup string) string {
	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == "cookie" {
			if name := strings.TrimSpace(parts[1]); name != "" {
				return name
			}
		}
	}
	return DefaultCookieName
}
