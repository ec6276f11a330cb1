// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/infrakeep/infrakeep/internal/model"
)

// sshStartRe locates an embedded ssh invocation: the token "ssh "
// followed by either a flag or a user@host pattern. The command does not
// have to start the line.
var sshStartRe = regexp.MustCompile(`\bssh\s+(?:-|\w+@)`)

// sshCommandRe matches the full invocation from that point: any number
// of single-letter flags with quoted or unquoted arguments, then the
// trailing user@host.
var sshCommandRe = regexp.MustCompile(`\bssh\s+(?:-\w\s+(?:"[^"]*"|'[^']*'|\S+)\s+)*[\w.-]+@[\w.-]+`)

var (
	sshKeyFlagRe  = regexp.MustCompile(`-i\s+("([^"]+)"|'([^']+)'|(\S+))`)
	sshPortFlagRe = regexp.MustCompile(`-p\s+(\d+)`)
	sshUserHostRe = regexp.MustCompile(`([\w.-]+)@([\w.-]+)\s*$`)
)

// ParseSSHCommand extracts the connection tuple from a single ssh
// invocation string. Returns false if no user@host target is present.
// The port defaults to 22 when no -p flag is given.
func ParseSSHCommand(cmd string) (model.SSHCommand, bool) {
	out := model.SSHCommand{Raw: strings.TrimSpace(cmd), Port: 22}

	uh := sshUserHostRe.FindStringSubmatch(out.Raw)
	if uh == nil {
		return model.SSHCommand{}, false
	}
	out.User = uh[1]
	out.Host = uh[2]

	if m := sshKeyFlagRe.FindStringSubmatch(out.Raw); m != nil {
		// quoted forms capture in groups 2/3, bare paths in group 4
		switch {
		case m[2] != "":
			out.KeyPath = m[2]
		case m[3] != "":
			out.KeyPath = m[3]
		default:
			out.KeyPath = m[4]
		}
	}
	if m := sshPortFlagRe.FindStringSubmatch(out.Raw); m != nil {
		if p, err := strconv.Atoi(m[1]); err == nil {
			out.Port = p
		}
	}
	return out, true
}

// extractSSHCommands finds every ssh invocation embedded in the
// document, keeping the full matched substring verbatim as the audit
// value. Duplicate invocations are collapsed.
func extractSSHCommands(lines []line) []model.SSHCommand {
	seen := map[string]bool{}
	out := []model.SSHCommand{}
	for _, l := range lines {
		if !sshStartRe.MatchString(l.raw) {
			continue
		}
		for _, m := range sshCommandRe.FindAllString(l.raw, -1) {
			cmd, ok := ParseSSHCommand(m)
			if !ok || seen[cmd.Raw] {
				continue
			}
			seen[cmd.Raw] = true
			out = append(out, cmd)
		}
	}
	return out
}
