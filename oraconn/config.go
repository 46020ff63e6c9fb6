// Package oraconn implements Connection: the single serialized task queue
// over one I/O goroutine that ties the framer, negotiator, authenticator,
// executor, and decoder together into a usable client.
package oraconn

import (
	"log"
	"strings"
	"time"
)

// sanitizer strips characters that would break the TNS connect-string
// syntax out of caller-supplied identity fields.
var sanitizer = strings.NewReplacer("(", "?", ")", "?", "=", "?")

// sanitize replaces '(', ')', '=' with '?' in s.
func sanitize(s string) string {
	return sanitizer.Replace(s)
}

// TLSMode selects whether the connection is established in the clear or
// requires TLS.
type TLSMode int

const (
	TLSDisabled TLSMode = iota
	TLSRequired
)

// TokenAuth carries one of the two access-token authentication variants.
// Dial does not read it: authentication always uses Config.Password.
type TokenAuth struct {
	OAuth2Token     string
	TokenPrivateKey string // PEM-encoded private key, paired with Token below
	Token           string
}

// Config is the full configuration surface for dialing and authenticating
// a connection, mirroring the caller-visible fields one at a time: host,
// port, service identification, TLS, credentials, timeouts, retry policy,
// and the identity fields attached to the session.
//
// Dial does not read TLSMode, TLSServerName, Token, ProcessID,
// SessionTimeZone or DebugJDWP: the connection is plain TCP, authentication
// uses Password, and the AUTH process id is that of the current process.
type Config struct {
	Host    string
	Port    int    // default 1521
	Service string // service name or SID

	TLSMode       TLSMode
	TLSServerName string // not read by Dial

	Username    string
	Password    string
	NewPassword string
	Token       *TokenAuth

	AuthorizationMode uint32 // bitwise OR of auth.ModeFlag values

	ConnectTimeout time.Duration // default 10s
	RetryCount     int
	RetryDelay     time.Duration

	ConnectionIDPrefix string
	Program            string
	Machine            string
	ProcessID          int
	OSUser             string

	SessionTimeZone string // optional; empty uses the server default
	DebugJDWP       string // optional debug-JDWP connect string

	// Logger receives diagnostic lines when non-nil; nil means silent,
	// matching the Non-goals exclusion of a built-in logging adapter.
	Logger *log.Logger
}

// DefaultPort is used when Config.Port is zero.
const DefaultPort = 1521

// DefaultConnectTimeout is used when Config.ConnectTimeout is zero.
const DefaultConnectTimeout = 10 * time.Second

// normalize fills in defaults and sanitizes identity fields, returning a
// copy safe to use for dialing.
func (c Config) normalize() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	c.ConnectionIDPrefix = sanitize(c.ConnectionIDPrefix)
	c.Program = sanitize(c.Program)
	c.Machine = sanitize(c.Machine)
	c.OSUser = sanitize(c.OSUser)
	return c
}

// logf writes a diagnostic line if a logger is configured.
func (c Config) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
