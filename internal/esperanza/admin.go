package esperanza

import "github.com/unit-e/ued/internal/chain"

// IsPermissioningActive reports whether this deployment still restricts
// deposits to whitelisted addresses. Once ended via
// AdminCommandEndPermissioning it is permanently false.
func (s *FinalizationState) IsPermissioningActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.PermissioningEnabled
}

// ValidateAdminKeys checks whether signingKeys (the set of public keys
// that actually signed the admin transaction) satisfies the configured
// admin threshold.
func (s *FinalizationState) ValidateAdminKeys(signingKeys [][]byte) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.params.PermissioningEnabled {
		return ResultAdminPermissioningNotActive
	}
	if countAuthorized(s.params.AdminKeys, signingKeys) < s.params.AdminKeys.Threshold {
		return ResultAdminNotAuthorized
	}
	return ResultSuccess
}

func countAuthorized(set AdminKeySet, signingKeys [][]byte) int {
	known := make(map[string]struct{}, len(set.Keys))
	for _, k := range set.Keys {
		known[string(k)] = struct{}{}
	}
	n := 0
	seen := make(map[string]struct{}, len(signingKeys))
	for _, k := range signingKeys {
		if _, dup := seen[string(k)]; dup {
			continue
		}
		seen[string(k)] = struct{}{}
		if _, ok := known[string(k)]; ok {
			n++
		}
	}
	return n
}

// ProcessAdminCommands applies cmds in order (§4.11). EndPermissioning
// switches permissioning off for this state; no command switches it back
// on. The changes go to a private copy of the params, so states sharing
// the same params (parent, siblings, clones) are not affected.
func (s *FinalizationState) ProcessAdminCommands(cmds []AdminCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *s.params
	for _, cmd := range cmds {
		switch cmd.Type {
		case AdminCommandWhitelist:
			s.whitelisted(cmd.Addresses)
		case AdminCommandResetAdmins:
			p.AdminKeys = cmd.Keys
		case AdminCommandEndPermissioning:
			p.PermissioningEnabled = false
		}
	}
	s.params = &p
}

// whitelisted is a placeholder hook: the actual whitelist set lives with
// the deposit-validation collaborator (out of scope per spec.md §1's
// "admin-permissioning RPCs" non-goal); here it only records that the
// command was seen so callers can thread it to that collaborator.
func (s *FinalizationState) whitelisted(addresses []chain.Hash160) {
	for range addresses {
		// No in-state effect: whitelist membership is consulted by the
		// deposit-validation collaborator outside this package.
	}
}
