/*
Copyright 2025 The driver-builder authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// delegationTokenKindSuffix marks token kinds that belong to the delegation token family.
const delegationTokenKindSuffix = "_DELEGATION_TOKEN"

// Identity is a resolved job identity the token provider can act as.
type Identity struct {
	Name string
}

// Token is an opaque security token issued to an identity. Tokens of the delegation family
// carry a JWT-encoded identifier that records who issued it, for whom, and when.
type Token struct {
	Kind       string
	Service    string
	Identifier []byte
	Password   []byte
}

// DelegationIdentifier is the decoded identifier of a delegation family token.
type DelegationIdentifier struct {
	Owner    string
	Renewer  string
	IssuedAt time.Time
}

// DecodeDelegationIdentifier decodes the token identifier as a delegation identifier. It
// returns an error for tokens outside the delegation family or identifiers without an issue
// timestamp; such tokens are not renewable.
func (t Token) DecodeDelegationIdentifier() (*DelegationIdentifier, error) {
	if !strings.HasSuffix(t.Kind, delegationTokenKindSuffix) {
		return nil, fmt.Errorf("token kind %q is not a delegation token kind", t.Kind)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(t.Identifier), claims); err != nil {
		return nil, fmt.Errorf("failed to decode delegation token identifier: %v", err)
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return nil, fmt.Errorf("delegation token identifier carries no issue time")
	}

	identifier := &DelegationIdentifier{
		IssuedAt: issuedAt.Time,
	}
	if owner, err := claims.GetSubject(); err == nil {
		identifier.Owner = owner
	}
	if renewer, ok := claims["renewer"].(string); ok {
		identifier.Renewer = renewer
	}
	return identifier, nil
}

// Credentials is a set of tokens held by an identity.
type Credentials struct {
	Tokens []Token
}

// Clone returns a deep copy of the credential set. Token acquisition always appends to a clone
// so the snapshot it was taken from stays untouched.
func (c *Credentials) Clone() *Credentials {
	clone := &Credentials{}
	if c == nil {
		return clone
	}
	clone.Tokens = make([]Token, 0, len(c.Tokens))
	for _, t := range c.Tokens {
		clone.Tokens = append(clone.Tokens, Token{
			Kind:       t.Kind,
			Service:    t.Service,
			Identifier: append([]byte(nil), t.Identifier...),
			Password:   append([]byte(nil), t.Password...),
		})
	}
	return clone
}

// Provider wraps the identity and credential operations of the security infrastructure. The
// builder only ever talks to the ambient identity and ticket cache through this interface.
type Provider interface {
	// SecurityEnabled reports whether secure interaction is turned on for this submission.
	SecurityEnabled() bool

	// LoginFromKeytab performs an identity login with the given principal and keytab location.
	LoginFromKeytab(principal string, keytab string) (Identity, error)

	// CurrentIdentity returns the identity already active in the ambient environment.
	CurrentIdentity() (Identity, error)

	// RunAs executes action under the authority of the given identity. The call is blocking,
	// non-cancellable, and returns the error raised by action after the identity switch is
	// unwound. It introduces no concurrency.
	RunAs(id Identity, action func() error) error

	// SnapshotCredentials returns a snapshot of the credential set held by the identity.
	// Mutating the returned set does not affect the identity's own credentials.
	SnapshotCredentials(id Identity) (*Credentials, error)

	// AddDelegationTokens requests fresh delegation tokens renewable by renewer and appends
	// them to creds.
	AddDelegationTokens(renewer string, creds *Credentials) error

	// RenewToken renews the given token and returns its new expiration time in milliseconds
	// since the epoch.
	RenewToken(token Token) (int64, error)

	// Serialize encodes the credential set in the provider's native token-storage format.
	Serialize(creds *Credentials) ([]byte, error)

	// Deserialize decodes a credential set from the provider's native token-storage format.
	Deserialize(data []byte) (*Credentials, error)
}
