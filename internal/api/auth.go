package api

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

var errInvalidAuthType = errors.New("invalid authentication type")

const securityScheme = "basicAuth"

// withAuth marks an operation as requiring basic auth. Operations with an
// empty Security list are public.
func withAuth() []map[string][]string {
	return []map[string][]string{{securityScheme: {}}}
}

func public() []map[string][]string {
	return []map[string][]string{}
}

// requireBasicAuth rejects requests to secured operations unless they carry
// the configured credentials.
func (s *Server) requireBasicAuth(username, password string) func(huma.Context, func(huma.Context)) {
	want := []byte(username + ":" + password)

	return func(ctx huma.Context, next func(huma.Context)) {
		if op := ctx.Operation(); op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		got, err := requestCredentials(ctx)
		switch {
		case err != nil:
			s.unauthorized(ctx, "Invalid credentials format", err)
		case got == "":
			s.unauthorized(ctx, "Authentication required")
		case !strings.Contains(got, ":"):
			s.unauthorized(ctx, "Invalid credentials format")
		case subtle.ConstantTimeCompare([]byte(got), want) != 1:
			s.unauthorized(ctx, "Invalid credentials")
		default:
			next(ctx)
		}
	}
}

// requestCredentials returns the decoded "user:pass" from the Authorization
// header. EventSource cannot set headers, so the base64 pair is also
// accepted in the auth query parameter.
func requestCredentials(ctx huma.Context) (string, error) {
	encoded := ctx.Query("auth")
	if header := ctx.Header("Authorization"); header != "" {
		scheme, value, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "Basic") {
			return "", errInvalidAuthType
		}
		encoded = value
	}
	if encoded == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func (s *Server) unauthorized(ctx huma.Context, msg string, errs ...error) {
	ctx.SetHeader("WWW-Authenticate", `Basic realm="blinkid"`)
	if err := huma.WriteErr(s.api, ctx, http.StatusUnauthorized, msg, errs...); err != nil {
		s.logger.Debug("Failed to write 401", "error", err)
	}
}
