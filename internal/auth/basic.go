package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// BasicConfig holds configuration for Basic authentication.
type BasicConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type basicMethod struct{ c BasicConfig }

// Acquire returns a Basic auth header value constructed from username and
// password.
func (m basicMethod) Acquire(_ context.Context) (string, error) {
	u := strings.TrimSpace(m.c.Username)
	p := strings.TrimSpace(m.c.Password)
	if u == "" || p == "" {
		return "", errors.New("basic: username and password are required")
	}
	cred := base64.StdEncoding.EncodeToString([]byte(u + ":" + p))
	return "Basic " + cred, nil
}

func init() {
	Register("basic", func(spec map[string]interface{}) (Method, error) {
		var c BasicConfig
		if err := mapstructure.Decode(spec, &c); err != nil {
			return nil, err
		}
		return basicMethod{c: c}, nil
	})
}
