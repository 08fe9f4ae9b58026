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
	"github.com/sparkonk8s/driver-builder/internal/steps"
	"github.com/sparkonk8s/driver-builder/pkg/common"
)

// SecretResolver wires a pre-provisioned delegation token secret into the driver pod instead
// of acquiring fresh tokens.
type SecretResolver struct {
	SecretName string
	ItemKey    string
}

// Apply implements steps.Step.
func (s *SecretResolver) Apply(spec *steps.DriverSpec) (*steps.DriverSpec, error) {
	out := spec.DeepCopy()
	out.SparkConf[common.SparkKubernetesKerberosTokenSecretName] = s.SecretName
	out.SparkConf[common.SparkKubernetesKerberosTokenSecretItemKey] = s.ItemKey
	bootstrapTokenSecret(out, s.SecretName, s.ItemKey)
	return out, nil
}
