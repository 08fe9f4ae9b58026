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
)

// InitContainerBootstrap stages remote dependencies before the driver starts: it adds emptyDir
// download volumes shared between an init container, which fetches the remote URIs, and the
// main container, which reads them from the resolved paths.
type InitContainerBootstrap struct {
	InitContainerImage string
	ImagePullPolicy    string
	RemoteJars         []string
	RemoteFiles        []string
	JarsDownloadDir    string
	FilesDownloadDir   string
}

// Apply implements Step.
func (s *InitContainerBootstrap) Apply(spec *DriverSpec) (*DriverSpec, error) {
	out := spec.DeepCopy()

	out.Pod.Spec.Volumes = append(out.Pod.Spec.Volumes,
		corev1.Volume{
			Name:         common.JarsDownloadVolumeName,
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		},
		corev1.Volume{
			Name:         common.FilesDownloadVolumeName,
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		},
	)

	mounts := []corev1.VolumeMount{
		{Name: common.JarsDownloadVolumeName, MountPath: s.JarsDownloadDir},
		{Name: common.FilesDownloadVolumeName, MountPath: s.FilesDownloadDir},
	}

	initContainer := corev1.Container{
		Name:            common.InitContainerName,
		Image:           s.InitContainerImage,
		ImagePullPolicy: corev1.PullPolicy(s.ImagePullPolicy),
		Args:            []string{"--jars-download-dir", s.JarsDownloadDir, "--files-download-dir", s.FilesDownloadDir},
		VolumeMounts:    mounts,
	}
	if len(s.RemoteJars) > 0 {
		initContainer.Args = append(initContainer.Args, "--remote-jars", strings.Join(s.RemoteJars, ","))
	}
	if len(s.RemoteFiles) > 0 {
		initContainer.Args = append(initContainer.Args, "--remote-files", strings.Join(s.RemoteFiles, ","))
	}
	out.Pod.Spec.InitContainers = append(out.Pod.Spec.InitContainers, initContainer)

	out.Container.VolumeMounts = append(out.Container.VolumeMounts, mounts...)

	out.SparkConf[common.SparkJarsDownloadDir] = s.JarsDownloadDir
	out.SparkConf[common.SparkFilesDownloadDir] = s.FilesDownloadDir
	return out, nil
}
