package tnsproto

import (
	"fmt"
	"strings"
)

// ConnectDescriptor holds the fields needed to build a TNS connect string:
// the bracketed "(DESCRIPTION=(CONNECT_DATA=...)(ADDRESS=...))" payload sent
// in the Connect packet.
type ConnectDescriptor struct {
	Host        string
	Port        int
	ServiceName string
	SID         string // mutually exclusive with ServiceName; SID takes precedence if set
	ConnectID   string // not written by BuildConnectString; the CID section uses Program, Machine and OSUser
	Program     string
	Machine     string
	OSUser      string
}

// connectStringEscaper replaces characters that would break TNS's bracketed
// key=value grammar if they appeared inside a value.
var connectStringEscaper = strings.NewReplacer("(", "", ")", "", "=", "")

func sanitize(s string) string {
	return connectStringEscaper.Replace(s)
}

// BuildConnectString renders d as the bracketed connect-data string carried
// in a Connect packet's payload.
func BuildConnectString(d ConnectDescriptor) string {
	var connectData strings.Builder
	connectData.WriteString("(CONNECT_DATA=")
	if d.SID != "" {
		fmt.Fprintf(&connectData, "(SID=%s)", sanitize(d.SID))
	} else {
		fmt.Fprintf(&connectData, "(SERVICE_NAME=%s)", sanitize(d.ServiceName))
	}
	fmt.Fprintf(&connectData, "(CID=(PROGRAM=%s)(HOST=%s)(USER=%s))",
		sanitize(d.Program), sanitize(d.Machine), sanitize(d.OSUser))
	connectData.WriteString(")")

	var sb strings.Builder
	sb.WriteString("(DESCRIPTION=")
	fmt.Fprintf(&sb, "(ADDRESS=(PROTOCOL=TCP)(HOST=%s)(PORT=%d))", sanitize(d.Host), d.Port)
	sb.WriteString(connectData.String())
	sb.WriteString(")")
	return sb.String()
}
