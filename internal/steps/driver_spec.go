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
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// DriverSpec is the specification accumulated by the step pipeline: the driver pod template,
// the main driver container kept separate until deploy time, auxiliary resources (secrets,
// ConfigMaps) to create alongside the pod, and extra driver-side Spark configuration.
type DriverSpec struct {
	Pod       *corev1.Pod
	Container *corev1.Container
	Resources []runtime.Object
	SparkConf map[string]string
}

// NewDriverSpec returns an empty spec for the pipeline to fold over.
func NewDriverSpec() *DriverSpec {
	return &DriverSpec{
		Pod:       &corev1.Pod{},
		Container: &corev1.Container{},
		SparkConf: map[string]string{},
	}
}

// DeepCopy returns a structurally independent copy. Steps derive their output from a copy of
// their input and never write through to a previously returned spec.
func (s *DriverSpec) DeepCopy() *DriverSpec {
	out := &DriverSpec{
		Pod:       s.Pod.DeepCopy(),
		Container: s.Container.DeepCopy(),
		SparkConf: make(map[string]string, len(s.SparkConf)),
	}
	for k, v := range s.SparkConf {
		out.SparkConf[k] = v
	}
	for _, r := range s.Resources {
		out.Resources = append(out.Resources, r.DeepCopyObject())
	}
	return out
}

// Step contributes one slice of the driver specification. Apply returns a new spec derived
// from its input; fields it does not touch are carried through unchanged.
type Step interface {
	Apply(spec *DriverSpec) (*DriverSpec, error)
}

// ApplyAll folds the given steps over spec in order and returns the final specification.
func ApplyAll(spec *DriverSpec, steps []Step) (*DriverSpec, error) {
	current := spec
	for _, step := range steps {
		next, err := step.Apply(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}
