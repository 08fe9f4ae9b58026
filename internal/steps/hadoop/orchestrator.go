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

package hadoop

import (
	"k8s.io/utils/clock"

	"github.com/sparkonk8s/driver-builder/internal/security"
	"github.com/sparkonk8s/driver-builder/internal/steps"
)

// Options carries the signals the sub-orchestrator decides on.
type Options struct {
	ConfDir        string
	Namespace      string
	ResourcePrefix string
	Provider       security.Provider
	Clock          clock.PassiveClock

	// Credential inputs, at most one variant is honored.
	Principal          string
	Keytab             string
	ExistingSecretName string
	ExistingSecretItem string
}

// ComputeSteps returns the ordered inner Hadoop steps for a submission. The configuration
// mounter always comes first since the resolver steps read mounted configuration values. With
// security disabled it is the only step. With security enabled exactly one resolver variant
// follows: a keytab login when principal and keytab are supplied, a pre-provisioned secret
// reference when one is named, and otherwise fresh acquisition under the ambient ticket-cache
// identity.
func ComputeSteps(opts Options) []steps.Step {
	hadoopSteps := []steps.Step{
		&ConfMounter{
			ConfDir:        opts.ConfDir,
			Namespace:      opts.Namespace,
			ResourcePrefix: opts.ResourcePrefix,
		},
	}

	if !opts.Provider.SecurityEnabled() {
		return hadoopSteps
	}

	if opts.Principal == "" && opts.Keytab == "" && opts.ExistingSecretName != "" {
		hadoopSteps = append(hadoopSteps, &SecretResolver{
			SecretName: opts.ExistingSecretName,
			ItemKey:    opts.ExistingSecretItem,
		})
		return hadoopSteps
	}

	hadoopSteps = append(hadoopSteps, &KeytabResolver{
		Provider:       opts.Provider,
		Principal:      opts.Principal,
		Keytab:         opts.Keytab,
		Namespace:      opts.Namespace,
		ResourcePrefix: opts.ResourcePrefix,
		Clock:          opts.Clock,
	})
	return hadoopSteps
}
