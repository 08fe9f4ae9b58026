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
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sparkonk8s/driver-builder/pkg/common"
)

// BaseSpec establishes the driver pod and container skeleton every later step builds on: pod
// identity and labels, the container image, and the application arguments.
type BaseSpec struct {
	Namespace       string
	ResourcePrefix  string
	AppID           string
	AppName         string
	MainClass       string
	AppArgs         []string
	Image           string
	ImagePullPolicy string
	CustomLabels    map[string]string
}

// Apply implements Step.
func (s *BaseSpec) Apply(spec *DriverSpec) (*DriverSpec, error) {
	out := spec.DeepCopy()

	labels := map[string]string{
		common.LabelSparkAppID:   s.AppID,
		common.LabelSparkAppName: s.AppName,
		common.LabelSparkRole:    common.SparkRoleDriver,
	}
	// Custom label keys are validated against the reserved keys before any step is built.
	for key, value := range s.CustomLabels {
		labels[key] = value
	}

	podName := s.ResourcePrefix + "-driver"
	out.Pod.ObjectMeta = metav1.ObjectMeta{
		Name:      podName,
		Namespace: s.Namespace,
		Labels:    labels,
	}
	out.Pod.Spec.RestartPolicy = corev1.RestartPolicyNever

	out.Container.Name = common.DriverContainerName
	out.Container.Image = s.Image
	out.Container.ImagePullPolicy = corev1.PullPolicy(s.ImagePullPolicy)
	if s.MainClass != "" {
		out.Container.Env = append(out.Container.Env, corev1.EnvVar{
			Name:  common.EnvSparkDriverClass,
			Value: s.MainClass,
		})
	}
	if len(s.AppArgs) > 0 {
		out.Container.Env = append(out.Container.Env, corev1.EnvVar{
			Name:  common.EnvSparkDriverArgs,
			Value: strings.Join(s.AppArgs, " "),
		})
	}

	out.SparkConf[common.SparkAppID] = s.AppID
	out.SparkConf[common.SparkAppName] = s.AppName
	out.SparkConf[common.SparkKubernetesNamespace] = s.Namespace
	out.SparkConf[common.SparkKubernetesDriverPodName] = podName
	return out, nil
}
