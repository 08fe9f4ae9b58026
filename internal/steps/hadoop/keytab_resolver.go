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
	"fmt"
	"math"
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/sparkonk8s/driver-builder/internal/security"
	"github.com/sparkonk8s/driver-builder/internal/steps"
	"github.com/sparkonk8s/driver-builder/pkg/common"
)

var logger = ctrl.Log.WithName("")

// KeytabResolver acquires delegation tokens on behalf of the job identity and packages them as
// an immutable secret the driver pod bootstraps from. When principal and keytab are unset the
// resolver degrades to the identity already active in the ambient environment.
//
// Apply is not safe to call concurrently against the same provider: the keytab login mutates
// provider-side identity state. Mutual exclusion between submissions is the caller's concern.
type KeytabResolver struct {
	Provider       security.Provider
	Principal      string
	Keytab         string
	Namespace      string
	ResourcePrefix string
	Clock          clock.PassiveClock
}

// Apply implements steps.Step.
func (s *KeytabResolver) Apply(spec *steps.DriverSpec) (*steps.DriverSpec, error) {
	identity, err := s.resolveIdentity()
	if err != nil {
		return nil, err
	}

	var creds *security.Credentials
	err = s.Provider.RunAs(identity, func() error {
		snapshot, err := s.Provider.SnapshotCredentials(identity)
		if err != nil {
			return fmt.Errorf("failed to snapshot credentials of %s: %v", identity.Name, err)
		}
		acquired := snapshot.Clone()
		if err := s.Provider.AddDelegationTokens(identity.Name, acquired); err != nil {
			return fmt.Errorf("failed to obtain delegation tokens: %v", err)
		}
		creds = acquired
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(creds.Tokens) == 0 {
		// Legitimate in deployments with no token services; the secret is still provisioned.
		logger.Error(nil, "Token acquisition yielded an empty token set", "identity", identity.Name)
	}

	payload, err := s.Provider.Serialize(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize delegation tokens: %v", err)
	}

	interval, ok := security.ComputeRenewalInterval(creds.Tokens, s.Provider)
	if !ok {
		interval = math.MaxInt64
	}

	now := s.Clock.Now().UnixMilli()
	dataKey := fmt.Sprintf("%s-%d-%d", common.KerberosSecretLabelPrefix, now, interval)
	secretName := s.ResourcePrefix + common.KerberosDelegationTokenSecretNameSuffix

	out := spec.DeepCopy()
	out.Resources = append(out.Resources, &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      secretName,
			Namespace: s.Namespace,
			Labels: map[string]string{
				common.LabelRefreshHadoopTokens: "yes",
			},
		},
		Data: map[string][]byte{
			dataKey: payload,
		},
	})

	out.SparkConf[common.SparkKubernetesKerberosTokenSecretName] = secretName
	out.SparkConf[common.SparkKubernetesKerberosTokenSecretItemKey] = dataKey
	bootstrapTokenSecret(out, secretName, dataKey)
	return out, nil
}

func (s *KeytabResolver) resolveIdentity() (security.Identity, error) {
	if s.Principal != "" && s.Keytab != "" {
		identity, err := s.Provider.LoginFromKeytab(s.Principal, s.Keytab)
		if err != nil {
			return security.Identity{}, fmt.Errorf("failed to log in as %s: %v", s.Principal, err)
		}
		return identity, nil
	}
	identity, err := s.Provider.CurrentIdentity()
	if err != nil {
		return security.Identity{}, fmt.Errorf("failed to resolve the ambient identity: %v", err)
	}
	return identity, nil
}

// bootstrapTokenSecret injects the token secret into the driver pod: a mounted volume plus the
// environment reference the driver reads the token file from.
func bootstrapTokenSecret(spec *steps.DriverSpec, secretName string, dataKey string) {
	spec.Pod.Spec.Volumes = append(spec.Pod.Spec.Volumes, corev1.Volume{
		Name: common.HadoopTokenVolumeName,
		VolumeSource: corev1.VolumeSource{
			Secret: &corev1.SecretVolumeSource{
				SecretName: secretName,
			},
		},
	})
	spec.Container.VolumeMounts = append(spec.Container.VolumeMounts, corev1.VolumeMount{
		Name:      common.HadoopTokenVolumeName,
		ReadOnly:  true,
		MountPath: common.HadoopTokenSecretMountPath,
	})
	spec.Container.Env = append(spec.Container.Env, corev1.EnvVar{
		Name:  common.EnvHadoopTokenFileLocation,
		Value: filepath.Join(common.HadoopTokenSecretMountPath, dataKey),
	})
}
