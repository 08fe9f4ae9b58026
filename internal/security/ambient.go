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
	"os"
	"os/user"

	"github.com/sparkonk8s/driver-builder/pkg/common"
)

// AmbientProvider is a Provider backed by the process environment: the current OS user is the
// ambient identity and its ticket cache is the token file named by HADOOP_TOKEN_FILE_LOCATION.
// It cannot reach a token service, so fresh acquisition is a no-op and renewal is unsupported;
// both degradations are absorbed by the callers per the provisioning contract.
type AmbientProvider struct {
	securityEnabled bool

	// LookupEnv is swapped out in tests.
	LookupEnv func(key string) (string, bool)
}

var _ Provider = &AmbientProvider{}

// NewAmbientProvider creates an AmbientProvider.
func NewAmbientProvider(securityEnabled bool) *AmbientProvider {
	return &AmbientProvider{
		securityEnabled: securityEnabled,
		LookupEnv:       os.LookupEnv,
	}
}

// SecurityEnabled implements Provider.
func (p *AmbientProvider) SecurityEnabled() bool {
	return p.securityEnabled
}

// LoginFromKeytab implements Provider. The ambient provider cannot contact a KDC; it verifies
// the keytab is present and records the principal as the acting identity.
func (p *AmbientProvider) LoginFromKeytab(principal string, keytab string) (Identity, error) {
	if principal == "" || keytab == "" {
		return Identity{}, fmt.Errorf("both principal and keytab are required for a keytab login")
	}
	if _, err := os.Stat(keytab); err != nil {
		return Identity{}, fmt.Errorf("failed to read keytab %s: %v", keytab, err)
	}
	return Identity{Name: principal}, nil
}

// CurrentIdentity implements Provider.
func (p *AmbientProvider) CurrentIdentity() (Identity, error) {
	u, err := user.Current()
	if err != nil {
		return Identity{}, fmt.Errorf("failed to determine the current user: %v", err)
	}
	return Identity{Name: u.Username}, nil
}

// RunAs implements Provider. The ambient identity is process-wide, so the switch is purely
// logical: the action runs to completion on the calling goroutine and its error propagates.
func (p *AmbientProvider) RunAs(_ Identity, action func() error) error {
	return action()
}

// SnapshotCredentials implements Provider. The snapshot is read from the ambient ticket cache
// file; an unset location yields an empty credential set.
func (p *AmbientProvider) SnapshotCredentials(_ Identity) (*Credentials, error) {
	location, ok := p.LookupEnv(common.EnvHadoopTokenFileLocation)
	if !ok || location == "" {
		return &Credentials{}, nil
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache %s: %v", location, err)
	}
	return p.Deserialize(data)
}

// AddDelegationTokens implements Provider. Acquisition needs a token service the ambient
// environment does not have; the credential set is left as the cache contents.
func (p *AmbientProvider) AddDelegationTokens(renewer string, creds *Credentials) error {
	logger.V(1).Info("Ambient environment has no token service, keeping cached tokens only",
		"renewer", renewer, "tokens", len(creds.Tokens))
	return nil
}

// RenewToken implements Provider.
func (p *AmbientProvider) RenewToken(token Token) (int64, error) {
	return 0, fmt.Errorf("token renewal is not supported by the ambient ticket cache")
}

// Serialize implements Provider.
func (p *AmbientProvider) Serialize(creds *Credentials) ([]byte, error) {
	return serializeCredentials(creds)
}

// Deserialize implements Provider.
func (p *AmbientProvider) Deserialize(data []byte) (*Credentials, error) {
	return deserializeCredentials(data)
}
