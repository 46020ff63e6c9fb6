package auth

import "testing"

func TestParsePhaseOneResponse11g(t *testing.T) {
	t.Parallel()
	resp := Params{
		ParamVerifierData: "aabbccdd",
		ParamSessKey:      "1122334455",
	}
	challenge, err := ParsePhaseOneResponse(resp, 0x01)
	if err != nil {
		t.Fatalf("ParsePhaseOneResponse: %v", err)
	}
	if challenge.Profile != VerifierProfile11gSHA1 {
		t.Fatalf("got profile %v, want 11g", challenge.Profile)
	}
}

func TestParsePhaseOneResponse12cRequiresPBKDF2Params(t *testing.T) {
	t.Parallel()
	resp := Params{
		ParamVerifierData: "aabbccdd",
		ParamSessKey:      "1122334455",
	}
	if _, err := ParsePhaseOneResponse(resp, 0x08); err == nil {
		t.Fatal("expected error for missing PBKDF2 params")
	}
}

func TestParsePhaseOneResponseRejectsUnknownProfile(t *testing.T) {
	t.Parallel()
	resp := Params{ParamVerifierData: "aa", ParamSessKey: "bb"}
	if _, err := ParsePhaseOneResponse(resp, 0xFF&^(verifierFlag11gSHA1|verifierFlag12cPBKDF2)); err != ErrUnsupportedVerifierProfile {
		t.Fatalf("got %v, want ErrUnsupportedVerifierProfile", err)
	}
}

func TestBuildPhaseTwo11g(t *testing.T) {
	t.Parallel()
	a := NewAuthenticator("oratncli", "host", "alice", 1234)
	ctx := NewContext("alice", "hunter2")
	defer ctx.Zero()

	challenge := PhaseOneChallenge{
		Profile:       VerifierProfile11gSHA1,
		VerifierSalt:  "aabbccdd",
		ServerSessKey: "112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00",
	}
	params, err := a.BuildPhaseTwo(ctx, challenge)
	if err != nil {
		t.Fatalf("BuildPhaseTwo: %v", err)
	}
	if _, ok := params["AUTH_PASSWORD"]; !ok {
		t.Fatal("expected AUTH_PASSWORD in phase two params")
	}
	if _, ok := params["AUTH_PBKDF2_SPEEDY_KEY"]; ok {
		t.Fatal("did not expect speedy key for 11g profile")
	}
}

func TestContextZeroClearsSecret(t *testing.T) {
	t.Parallel()
	ctx := NewContext("alice", "hunter2")
	ctx.Zero()
	if ctx.Secret() != "" {
		t.Fatalf("got %q, want empty after Zero", ctx.Secret())
	}
}

func TestParseServerVersionLegacyLayout(t *testing.T) {
	t.Parallel()
	v := ParseServerVersion(0x13030001, 0)
	if v.Major != 0x13 {
		t.Fatalf("got major %d, want 0x13", v.Major)
	}
}
