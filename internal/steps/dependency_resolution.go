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

	"github.com/sparkonk8s/driver-builder/pkg/common"
	"github.com/sparkonk8s/driver-builder/pkg/util"
)

// DependencyResolution rewrites every jar and file dependency URI to the path the driver will
// read it from inside the container, regardless of whether staging is needed. Later steps read
// the resolved paths from the Spark configuration.
type DependencyResolution struct {
	Jars             []string
	Files            []string
	JarsDownloadDir  string
	FilesDownloadDir string
}

// Apply implements Step.
func (s *DependencyResolution) Apply(spec *DriverSpec) (*DriverSpec, error) {
	jars, err := util.ResolveContainerPaths(s.Jars, s.JarsDownloadDir)
	if err != nil {
		return nil, err
	}
	files, err := util.ResolveContainerPaths(s.Files, s.FilesDownloadDir)
	if err != nil {
		return nil, err
	}

	out := spec.DeepCopy()
	if len(jars) > 0 {
		out.SparkConf[common.SparkJars] = strings.Join(jars, ",")
	}
	if len(files) > 0 {
		out.SparkConf[common.SparkFiles] = strings.Join(files, ",")
	}
	return out, nil
}
