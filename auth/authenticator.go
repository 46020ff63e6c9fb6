package auth

import (
	"fmt"
	"strconv"
)

// clientIdentity is the minimal set of key/value pairs sent with the
// phase-one AUTH message identifying the connecting process.
type clientIdentity struct {
	Terminal string
	Program  string
	Machine  string
	PID      string
	OSUser   string
}

// Authenticator drives the two-phase AUTH handshake. It owns no socket; the
// caller is responsible for sending the Params it builds and feeding back
// the Params the server responds with (message framing belongs to the
// protocol layer's function-code request builder).
type Authenticator struct {
	Identity clientIdentity
}

// NewAuthenticator creates an Authenticator identifying the client process
// as program/machine/osUser, matching what the Connect string's CID also
// carries.
func NewAuthenticator(program, machine, osUser string, pid int) *Authenticator {
	return &Authenticator{Identity: clientIdentity{
		Terminal: "unknown",
		Program:  program,
		Machine:  machine,
		PID:      strconv.Itoa(pid),
		OSUser:   osUser,
	}}
}

// BuildPhaseOne returns the key/value pairs sent with the username in the
// first AUTH message.
func (a *Authenticator) BuildPhaseOne(username string) Params {
	return Params{
		"AUTH_TERMINAL":   a.Identity.Terminal,
		"AUTH_PROGRAM_NM": a.Identity.Program,
		"AUTH_MACHINE":    a.Identity.Machine,
		"AUTH_PID":        a.Identity.PID,
		"AUTH_SID":        a.Identity.OSUser,
	}
}

// PhaseOneChallenge is the parsed subset of the phase-one response needed
// to derive the session key.
type PhaseOneChallenge struct {
	Profile       VerifierProfile
	VerifierSalt  string // AUTH_VFR_DATA, hex
	ServerSessKey string // AUTH_SESSKEY, hex
	CSKSalt       string // AUTH_PBKDF2_CSK_SALT, hex
	VGenCount     int    // AUTH_PBKDF2_VGEN_COUNT
	SDerCount     int    // AUTH_PBKDF2_SDER_COUNT
}

// VerifierFlags extracts and parses AUTH_VFR_FLAGS from a phase-one
// response, the value ParsePhaseOneResponse's verifierFlags argument
// expects.
func VerifierFlags(resp Params) (int, error) {
	return intParam(resp, ParamVerifierFlags)
}

// ParsePhaseOneResponse extracts the verifier challenge from the server's
// phase-one response parameters and the separately-carried verifier
// profile flags.
func ParsePhaseOneResponse(resp Params, verifierFlags int) (PhaseOneChallenge, error) {
	profile, err := ResolveVerifierProfile(verifierFlags)
	if err != nil {
		return PhaseOneChallenge{}, err
	}

	salt, ok := resp.Get(ParamVerifierData)
	if !ok {
		return PhaseOneChallenge{}, fmt.Errorf("auth: phase one response missing %s", ParamVerifierData)
	}
	sessKey, ok := resp.Get(ParamSessKey)
	if !ok {
		return PhaseOneChallenge{}, fmt.Errorf("auth: phase one response missing %s", ParamSessKey)
	}

	challenge := PhaseOneChallenge{
		Profile:       profile,
		VerifierSalt:  salt,
		ServerSessKey: sessKey,
	}

	if profile == VerifierProfile12cPBKDF2 {
		cskSalt, ok := resp.Get(ParamPBKDF2CSKSalt)
		if !ok {
			return PhaseOneChallenge{}, fmt.Errorf("auth: phase one response missing %s", ParamPBKDF2CSKSalt)
		}
		vgen, err := intParam(resp, ParamPBKDF2VGenCnt)
		if err != nil {
			return PhaseOneChallenge{}, err
		}
		sder, err := intParam(resp, ParamPBKDF2SDerCnt)
		if err != nil {
			return PhaseOneChallenge{}, err
		}
		challenge.CSKSalt = cskSalt
		challenge.VGenCount = vgen
		challenge.SDerCount = sder
	}

	return challenge, nil
}

func intParam(p Params, key string) (int, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, fmt.Errorf("auth: missing %s", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("auth: parse %s=%q: %w", key, v, err)
	}
	return n, nil
}

// BuildPhaseTwo derives the session key from challenge and returns the
// Params for the second AUTH message (caller should zero ctx's secret
// immediately after this returns).
func (a *Authenticator) BuildPhaseTwo(ctx *Context, challenge PhaseOneChallenge) (Params, error) {
	material, err := DeriveSessionKey(challenge.Profile, ctx.Secret(), challenge.VerifierSalt,
		challenge.ServerSessKey, challenge.CSKSalt, challenge.VGenCount, challenge.SDerCount)
	if err != nil {
		return nil, fmt.Errorf("auth: derive session key: %w", err)
	}

	encPassword, err := EncryptPassword(material.SessionKey, material.RandomPrefix, ctx.Secret())
	if err != nil {
		return nil, fmt.Errorf("auth: encrypt password: %w", err)
	}

	mode := ModeWithPassword
	if ctx.NewPassword != "" {
		mode |= ModeChangePassword
	}
	mode |= modeFlagsFromRoles(ctx.Mode)

	params := Params{
		"AUTH_SESSKEY":           material.SessionKeyExchange,
		"AUTH_PASSWORD":          encPassword,
		"AUTH_MODE":              strconv.FormatUint(uint64(mode), 10),
		"SESSION_CLIENT_CHARSET": "873",
	}
	if len(material.SpeedyKey) > 0 {
		params["AUTH_PBKDF2_SPEEDY_KEY"] = fmt.Sprintf("%X", material.SpeedyKey)
	}
	if ctx.NewPassword != "" {
		encNew, err := EncryptPassword(material.SessionKey, material.RandomPrefix, ctx.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("auth: encrypt new password: %w", err)
		}
		params["AUTH_NEWPASSWORD"] = encNew
	}
	if ctx.DRCPPurity != DRCPPurityDefault {
		params["AUTH_KPPL_PURITY"] = strconv.Itoa(int(ctx.DRCPPurity))
	}

	return params, nil
}

func modeFlagsFromRoles(m Mode) ModeFlag {
	var f ModeFlag
	if m&ModeSysDBARole != 0 {
		f |= ModeSysDBA
	}
	if m&ModeSysOperRole != 0 {
		f |= ModeSysOper
	}
	if m&ModeSysASMRole != 0 {
		f |= ModeSysASM
	}
	if m&ModeSysBKPRole != 0 {
		f |= ModeSysBKP
	}
	if m&ModeSysDGDRole != 0 {
		f |= ModeSysDGD
	}
	if m&ModeSysKMTRole != 0 {
		f |= ModeSysKMT
	}
	if m&ModeSysRACRole != 0 {
		f |= ModeSysRAC
	}
	return f
}

// serverVersionExtensionThreshold is the TTC field version ("18.1
// extension 1") at which AUTH_VERSION_NO switches bit layouts.
const serverVersionExtensionThreshold = 6

// ServerVersion is the 5-tuple version extracted from AUTH_VERSION_NO.
type ServerVersion struct {
	Major, Maintenance, AppServer, Component, Platform int
}

// ParseServerVersion decodes AUTH_VERSION_NO using the bit layout selected
// by ttcFieldVersion.
func ParseServerVersion(versionNo uint32, ttcFieldVersion uint8) ServerVersion {
	if ttcFieldVersion >= serverVersionExtensionThreshold {
		return ServerVersion{
			Major:       int(versionNo>>24) & 0xFF,
			Maintenance: int(versionNo>>20) & 0x0F,
			AppServer:   int(versionNo>>12) & 0xFF,
			Component:   int(versionNo>>4) & 0xFF,
			Platform:    int(versionNo) & 0x0F,
		}
	}
	return ServerVersion{
		Major:       int(versionNo>>24) & 0xFF,
		Maintenance: int(versionNo>>20) & 0x0F,
		AppServer:   int(versionNo>>8) & 0x0F,
		Component:   int(versionNo>>4) & 0x0F,
		Platform:    int(versionNo) & 0x0F,
	}
}
