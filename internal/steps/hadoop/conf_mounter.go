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
	"os"
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sparkonk8s/driver-builder/internal/steps"
	"github.com/sparkonk8s/driver-builder/pkg/common"
)

// ConfMounter packages the discovered Hadoop configuration directory into a ConfigMap and
// mounts it into the driver container with HADOOP_CONF_DIR pointing at the mount. It always
// runs before the resolver steps, which read mounted configuration values.
type ConfMounter struct {
	ConfDir        string
	Namespace      string
	ResourcePrefix string

	// LoadConfFiles is swapped out in tests.
	LoadConfFiles func(dir string) (map[string]string, error)
}

// Apply implements steps.Step.
func (s *ConfMounter) Apply(spec *steps.DriverSpec) (*steps.DriverSpec, error) {
	load := s.LoadConfFiles
	if load == nil {
		load = loadConfDir
	}
	data, err := load(s.ConfDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load Hadoop configuration from %s: %v", s.ConfDir, err)
	}

	out := spec.DeepCopy()

	configMapName := s.ResourcePrefix + "-hadoop-config"
	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      configMapName,
			Namespace: s.Namespace,
		},
		Data: data,
	}
	out.Resources = append(out.Resources, configMap)

	out.Pod.Spec.Volumes = append(out.Pod.Spec.Volumes, corev1.Volume{
		Name: common.HadoopConfigMapVolumeName,
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{
					Name: configMapName,
				},
			},
		},
	})
	out.Container.VolumeMounts = append(out.Container.VolumeMounts, corev1.VolumeMount{
		Name:      common.HadoopConfigMapVolumeName,
		ReadOnly:  true,
		MountPath: common.DefaultHadoopConfDir,
	})
	out.Container.Env = append(out.Container.Env, corev1.EnvVar{
		Name:  common.EnvHadoopConfDir,
		Value: common.DefaultHadoopConfDir,
	})

	out.SparkConf[common.SparkKubernetesHadoopConfigMapName] = configMapName
	return out, nil
}

func loadConfDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	data := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		data[entry.Name()] = string(content)
	}
	return data, nil
}
