package connector

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// DSNBuilder assembles a URL-style connection string. Query parameters are
// encoded in key order, so equal configs give equal DSNs.
type DSNBuilder struct {
	u      url.URL
	port   int
	params url.Values
}

func NewDSNBuilder(scheme string) *DSNBuilder {
	return &DSNBuilder{
		u:      url.URL{Scheme: scheme},
		params: url.Values{},
	}
}

// DSNFromConfig seeds a builder with the connection fields of cfg.
func DSNFromConfig(scheme string, cfg Config) *DSNBuilder {
	b := NewDSNBuilder(scheme).
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, cfg.Port).
		Database(cfg.Database).
		Params(cfg.Params).
		Param("sslmode", cfg.SSLMode)
	if cfg.ConnectTimeout > 0 {
		b.Param("connect_timeout", strconv.Itoa(int(cfg.ConnectTimeout.Seconds())))
	}
	return b
}

// Auth sets the user info. An empty username drops it; an empty password
// leaves the user without one.
func (b *DSNBuilder) Auth(username, password string) *DSNBuilder {
	switch {
	case username == "":
		b.u.User = nil
	case password == "":
		b.u.User = url.User(username)
	default:
		b.u.User = url.UserPassword(username, password)
	}
	return b
}

func (b *DSNBuilder) Host(host string, port int) *DSNBuilder {
	b.port = port
	b.u.Host = host
	if host != "" && port > 0 {
		b.u.Host = net.JoinHostPort(host, strconv.Itoa(port))
	}
	return b
}

func (b *DSNBuilder) Database(name string) *DSNBuilder {
	b.u.Path = ""
	if name != "" {
		b.u.Path = "/" + name
	}
	return b
}

// Param sets key. Empty values are ignored.
func (b *DSNBuilder) Param(key, value string) *DSNBuilder {
	if value != "" {
		b.params.Set(key, value)
	}
	return b
}

func (b *DSNBuilder) Params(params map[string]string) *DSNBuilder {
	for k, v := range params {
		b.Param(k, v)
	}
	return b
}

// WithPostgresDefaults fills sslmode and connect_timeout unless already set.
func (b *DSNBuilder) WithPostgresDefaults() *DSNBuilder {
	if !b.params.Has("sslmode") {
		b.params.Set("sslmode", "prefer")
	}
	if !b.params.Has("connect_timeout") {
		b.params.Set("connect_timeout", "10")
	}
	return b
}

func (b *DSNBuilder) Validate() error {
	if b.u.Host == "" {
		return errors.New("host is required")
	}
	if b.port <= 0 || b.port > 65535 {
		return fmt.Errorf("invalid port: %d", b.port)
	}
	return nil
}

func (b *DSNBuilder) Build() string {
	u := b.u
	u.RawQuery = b.params.Encode()
	return u.String()
}
