// Package conf assembles PostgreSQL connection parameters.
//
// A zero Conf produces an empty DSN, which leaves every parameter to the
// server defaults and the libpq environment variables (PGHOST, PGUSER,
// PGPASSWORD, PGDATABASE, ...). Parsing of the finished DSN or URL is owned
// by the driver.
package conf

import (
	"strconv"
	"strings"
	"time"
)

// SSLMode values recognized by the server. See the libpq documentation for
// their exact meaning.
type SSLMode string

const (
	SSLDisable    SSLMode = "disable"
	SSLAllow      SSLMode = "allow"
	SSLPrefer     SSLMode = "prefer"
	SSLRequire    SSLMode = "require"
	SSLVerifyCA   SSLMode = "verify-ca"
	SSLVerifyFull SSLMode = "verify-full"
)

type param struct {
	key   string
	value string
}

// Conf is a finished, immutable set of connection parameters. Build one with
// a Builder, or wrap an existing connection string / URL with Raw.
type Conf struct {
	raw    string
	params []param
}

// Raw wraps a ready-made connection string or URL without touching it.
func Raw(dsn string) Conf {
	return Conf{raw: dsn}
}

// DSN renders the parameters as a libpq keyword/value string.
func (c Conf) DSN() string {
	if c.raw != "" {
		return c.raw
	}
	var sb strings.Builder
	for i, p := range c.params {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(quote(p.value))
	}
	return sb.String()
}

// quote protects values containing spaces or quotes, per libpq rules.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\") {
		return v
	}
	var sb strings.Builder
	sb.WriteByte('\'')
	for i := 0; i < len(v); i++ {
		if v[i] == '\'' || v[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(v[i])
	}
	sb.WriteByte('\'')
	return sb.String()
}

// Builder collects connection parameters. Dedicated setters mirror the libpq
// parameter names; Set and friends are the escape hatch for parameters that
// have no dedicated setter yet.
type Builder struct {
	params []param
}

func Build() *Builder {
	return &Builder{}
}

// Set records a raw key/value pair. Later values win for a repeated key.
func (b *Builder) Set(key, value string) *Builder {
	for i := range b.params {
		if b.params[i].key == key {
			b.params[i].value = value
			return b
		}
	}
	b.params = append(b.params, param{key: key, value: value})
	return b
}

// Enable records a boolean parameter the way libpq expects it (1/0).
func (b *Builder) Enable(key string, on bool) *Builder {
	v := "0"
	if on {
		v = "1"
	}
	return b.Set(key, v)
}

func (b *Builder) SetNumber(key string, n int) *Builder {
	return b.Set(key, strconv.Itoa(n))
}

// SetInterval records a duration parameter in whole seconds, rounding up so
// a sub-second duration does not silently become "disabled".
func (b *Builder) SetInterval(key string, d time.Duration) *Builder {
	secs := int((d + time.Second - 1) / time.Second)
	return b.SetNumber(key, secs)
}

func (b *Builder) Host(host string) *Builder { return b.Set("host", host) }

func (b *Builder) Port(port uint16) *Builder { return b.SetNumber("port", int(port)) }

func (b *Builder) User(user string) *Builder { return b.Set("user", user) }

func (b *Builder) Password(pw string) *Builder { return b.Set("password", pw) }

func (b *Builder) Dbname(db string) *Builder { return b.Set("dbname", db) }

func (b *Builder) ApplicationName(name string) *Builder {
	return b.Set("application_name", name)
}

func (b *Builder) SSLModeOpt(mode SSLMode) *Builder { return b.Set("sslmode", string(mode)) }

func (b *Builder) ConnectTimeout(d time.Duration) *Builder {
	return b.SetInterval("connect_timeout", d)
}

func (b *Builder) Keepalives(on bool) *Builder { return b.Enable("keepalives", on) }

func (b *Builder) KeepalivesIdle(d time.Duration) *Builder {
	return b.SetInterval("keepalives_idle", d)
}

func (b *Builder) KeepalivesInterval(d time.Duration) *Builder {
	return b.SetInterval("keepalives_interval", d)
}

func (b *Builder) KeepalivesCount(n int) *Builder {
	return b.SetNumber("keepalives_count", n)
}

// Build freezes the collected parameters.
func (b *Builder) Build() Conf {
	params := make([]param, len(b.params))
	copy(params, b.params)
	return Conf{params: params}
}
