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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/sparkonk8s/driver-builder/internal/steps"
	"github.com/sparkonk8s/driver-builder/pkg/common"
)

func TestComputeSteps(t *testing.T) {
	testCases := []struct {
		name               string
		securityEnabled    bool
		principal          string
		keytab             string
		existingSecretName string
		expectedSteps      []string
	}{
		{
			name:            "security disabled",
			securityEnabled: false,
			expectedSteps:   []string{"*hadoop.ConfMounter"},
		},
		{
			name:            "security disabled ignores credential inputs",
			securityEnabled: false,
			principal:       "spark@EXAMPLE.COM",
			keytab:          "/etc/security/spark.keytab",
			expectedSteps:   []string{"*hadoop.ConfMounter"},
		},
		{
			name:            "security enabled with principal and keytab",
			securityEnabled: true,
			principal:       "spark@EXAMPLE.COM",
			keytab:          "/etc/security/spark.keytab",
			expectedSteps:   []string{"*hadoop.ConfMounter", "*hadoop.KeytabResolver"},
		},
		{
			name:               "security enabled with existing secret",
			securityEnabled:    true,
			existingSecretName: "spark-tokens",
			expectedSteps:      []string{"*hadoop.ConfMounter", "*hadoop.SecretResolver"},
		},
		{
			name:               "security enabled prefers keytab over existing secret",
			securityEnabled:    true,
			principal:          "spark@EXAMPLE.COM",
			keytab:             "/etc/security/spark.keytab",
			existingSecretName: "spark-tokens",
			expectedSteps:      []string{"*hadoop.ConfMounter", "*hadoop.KeytabResolver"},
		},
		{
			name:            "security enabled without credential inputs falls back to ambient identity",
			securityEnabled: true,
			expectedSteps:   []string{"*hadoop.ConfMounter", "*hadoop.KeytabResolver"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hadoopSteps := ComputeSteps(Options{
				ConfDir:            "/etc/hadoop/conf",
				Namespace:          "default",
				ResourcePrefix:     "spark-pi-abc123",
				Provider:           &fakeProvider{securityEnabled: tc.securityEnabled},
				Clock:              clocktesting.NewFakeClock(time.Unix(1700001000, 0)),
				Principal:          tc.principal,
				Keytab:             tc.keytab,
				ExistingSecretName: tc.existingSecretName,
				ExistingSecretItem: "hadoop-tokens-1-1",
			})

			assert.Equal(t, tc.expectedSteps, stepTypeNames(hadoopSteps))
		})
	}
}

func stepTypeNames(hadoopSteps []steps.Step) []string {
	names := make([]string, 0, len(hadoopSteps))
	for _, step := range hadoopSteps {
		switch step.(type) {
		case *ConfMounter:
			names = append(names, "*hadoop.ConfMounter")
		case *KeytabResolver:
			names = append(names, "*hadoop.KeytabResolver")
		case *SecretResolver:
			names = append(names, "*hadoop.SecretResolver")
		default:
			names = append(names, "unknown")
		}
	}
	return names
}

func TestConfMounter(t *testing.T) {
	mounter := &ConfMounter{
		ConfDir:        "/opt/hadoop/conf",
		Namespace:      "default",
		ResourcePrefix: "spark-pi-abc123",
		LoadConfFiles: func(dir string) (map[string]string, error) {
			assert.Equal(t, "/opt/hadoop/conf", dir)
			return map[string]string{
				"core-site.xml": "<configuration/>",
				"hdfs-site.xml": "<configuration/>",
			}, nil
		},
	}

	out, err := mounter.Apply(steps.NewDriverSpec())
	require.NoError(t, err)

	require.Len(t, out.Resources, 1)
	configMap, ok := out.Resources[0].(*corev1.ConfigMap)
	require.True(t, ok)
	assert.Equal(t, "spark-pi-abc123-hadoop-config", configMap.Name)
	assert.Len(t, configMap.Data, 2)

	assert.Equal(t, configMap.Name, out.SparkConf[common.SparkKubernetesHadoopConfigMapName])

	confDir, ok := findEnv(out.Container, common.EnvHadoopConfDir)
	require.True(t, ok)
	assert.Equal(t, common.DefaultHadoopConfDir, confDir)

	require.Len(t, out.Pod.Spec.Volumes, 1)
	assert.Equal(t, common.HadoopConfigMapVolumeName, out.Pod.Spec.Volumes[0].Name)
	require.Len(t, out.Container.VolumeMounts, 1)
	assert.Equal(t, common.DefaultHadoopConfDir, out.Container.VolumeMounts[0].MountPath)
}

func TestSecretResolver(t *testing.T) {
	resolver := &SecretResolver{
		SecretName: "spark-tokens",
		ItemKey:    "hadoop-tokens-1700001000000-1800000",
	}

	out, err := resolver.Apply(steps.NewDriverSpec())
	require.NoError(t, err)

	assert.Equal(t, "spark-tokens", out.SparkConf[common.SparkKubernetesKerberosTokenSecretName])
	assert.Equal(t, "hadoop-tokens-1700001000000-1800000", out.SparkConf[common.SparkKubernetesKerberosTokenSecretItemKey])

	// No new secret is created for a pre-provisioned reference.
	assert.Empty(t, out.Resources)

	location, ok := findEnv(out.Container, common.EnvHadoopTokenFileLocation)
	require.True(t, ok)
	assert.Equal(t, common.HadoopTokenSecretMountPath+"/hadoop-tokens-1700001000000-1800000", location)

	require.Len(t, out.Pod.Spec.Volumes, 1)
	assert.Equal(t, "spark-tokens", out.Pod.Spec.Volumes[0].Secret.SecretName)
}

func TestInnerStepsDoNotMutateInput(t *testing.T) {
	innerSteps := map[string]steps.Step{
		"conf mounter": &ConfMounter{
			ConfDir:        "/opt/hadoop/conf",
			Namespace:      "default",
			ResourcePrefix: "spark-pi-abc123",
			LoadConfFiles: func(string) (map[string]string, error) {
				return map[string]string{"core-site.xml": "<configuration/>"}, nil
			},
		},
		"secret resolver": &SecretResolver{
			SecretName: "spark-tokens",
			ItemKey:    "hadoop-tokens-1-1",
		},
	}

	for name, step := range innerSteps {
		t.Run(name, func(t *testing.T) {
			in := steps.NewDriverSpec()
			in.SparkConf["existing.key"] = "existing.value"
			snapshot := in.DeepCopy()

			out, err := step.Apply(in)
			require.NoError(t, err)
			assert.Equal(t, snapshot, in)
			assert.Equal(t, "existing.value", out.SparkConf["existing.key"])
		})
	}
}
