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

package steps

import (
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sparkonk8s/driver-builder/pkg/common"
)

// Secret data item names for the mounted driver credentials.
const (
	oauthTokenItem = "oauth-token"
	caCertItem     = "ca-cert"
	clientKeyItem  = "client-key"
	clientCertItem = "client-cert"
)

// KubernetesCredentials provisions the credentials the driver needs to talk to the cluster
// API: the service account it runs as and, when explicit credential material is supplied, a
// mounted secret with configuration entries pointing at the mounted items.
type KubernetesCredentials struct {
	Namespace      string
	ResourcePrefix string
	ServiceAccount string

	// Raw credential material keyed by its mounted item name, already loaded by the caller.
	OAuthToken []byte
	CaCert     []byte
	ClientKey  []byte
	ClientCert []byte
}

// Apply implements Step.
func (s *KubernetesCredentials) Apply(spec *DriverSpec) (*DriverSpec, error) {
	out := spec.DeepCopy()

	if s.ServiceAccount != "" {
		out.Pod.Spec.ServiceAccountName = s.ServiceAccount
		out.SparkConf[common.SparkKubernetesAuthenticateDriverServiceAccountName] = s.ServiceAccount
	}

	data := map[string][]byte{}
	confKeys := map[string]string{}
	if len(s.OAuthToken) > 0 {
		data[oauthTokenItem] = s.OAuthToken
		confKeys[oauthTokenItem] = common.SparkKubernetesAuthenticateDriverOAuthTokenFile
	}
	if len(s.CaCert) > 0 {
		data[caCertItem] = s.CaCert
		confKeys[caCertItem] = common.SparkKubernetesAuthenticateDriverCaCertFile
	}
	if len(s.ClientKey) > 0 {
		data[clientKeyItem] = s.ClientKey
		confKeys[clientKeyItem] = common.SparkKubernetesAuthenticateDriverClientKeyFile
	}
	if len(s.ClientCert) > 0 {
		data[clientCertItem] = s.ClientCert
		confKeys[clientCertItem] = common.SparkKubernetesAuthenticateDriverClientCertFile
	}
	if len(data) == 0 {
		return out, nil
	}

	secretName := s.ResourcePrefix + common.KubernetesCredentialsSecretNameSuffix
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      secretName,
			Namespace: s.Namespace,
		},
		Data: data,
	}
	out.Resources = append(out.Resources, secret)

	out.Pod.Spec.Volumes = append(out.Pod.Spec.Volumes, corev1.Volume{
		Name: common.KubernetesCredentialsVolumeName,
		VolumeSource: corev1.VolumeSource{
			Secret: &corev1.SecretVolumeSource{
				SecretName: secretName,
			},
		},
	})
	out.Container.VolumeMounts = append(out.Container.VolumeMounts, corev1.VolumeMount{
		Name:      common.KubernetesCredentialsVolumeName,
		ReadOnly:  true,
		MountPath: common.KubernetesCredentialsMountPath,
	})
	for item, confKey := range confKeys {
		out.SparkConf[confKey] = filepath.Join(common.KubernetesCredentialsMountPath, item)
	}
	return out, nil
}
