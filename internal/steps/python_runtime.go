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

	"github.com/sparkonk8s/driver-builder/pkg/common"
	"github.com/sparkonk8s/driver-builder/pkg/util"
)

// PythonRuntime configures the driver container for script applications: the in-container
// location of the primary script and of any extra Python files, resolved against the files
// download directory established by the dependency resolution step.
type PythonRuntime struct {
	PrimaryFile      string
	PyFiles          []string
	FilesDownloadDir string
}

// Apply implements Step.
func (s *PythonRuntime) Apply(spec *DriverSpec) (*DriverSpec, error) {
	primary, err := util.ResolveContainerPath(s.PrimaryFile, s.FilesDownloadDir)
	if err != nil {
		return nil, err
	}
	pyFiles, err := util.ResolveContainerPaths(s.PyFiles, s.FilesDownloadDir)
	if err != nil {
		return nil, err
	}

	out := spec.DeepCopy()
	out.Container.Env = append(out.Container.Env, corev1.EnvVar{
		Name:  common.EnvPysparkPrimary,
		Value: primary,
	})
	if len(pyFiles) > 0 {
		out.Container.Env = append(out.Container.Env, corev1.EnvVar{
			Name:  common.EnvPysparkFiles,
			Value: strings.Join(pyFiles, ","),
		})
	}
	return out, nil
}
