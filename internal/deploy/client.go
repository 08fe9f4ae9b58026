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

package deploy

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/ptr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/sparkonk8s/driver-builder/internal/steps"
)

var logger = ctrl.Log.WithName("")

// Client hands a finished driver specification to the cluster: it creates the driver pod and
// then the auxiliary secrets and ConfigMaps owned by it. It does not retry; transport policy
// belongs to the caller.
type Client struct {
	clientset kubernetes.Interface
}

// NewClient creates a deploy client on top of the given clientset.
func NewClient(clientset kubernetes.Interface) *Client {
	return &Client{clientset: clientset}
}

// Run creates the driver pod and its auxiliary resources and returns the created pod.
func (c *Client) Run(ctx context.Context, spec *steps.DriverSpec) (*corev1.Pod, error) {
	pod := spec.Pod.DeepCopy()
	pod.Spec.Containers = append(pod.Spec.Containers, *spec.Container.DeepCopy())

	created, err := c.clientset.CoreV1().Pods(pod.Namespace).Create(ctx, pod, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create driver pod %s/%s: %v", pod.Namespace, pod.Name, err)
	}
	logger.Info("Created driver pod", "name", created.Name, "namespace", created.Namespace)

	ownerReference := metav1.OwnerReference{
		APIVersion: "v1",
		Kind:       "Pod",
		Name:       created.Name,
		UID:        created.UID,
		Controller: ptr.To(true),
	}

	for _, resource := range spec.Resources {
		if err := c.createResource(ctx, resource, ownerReference); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (c *Client) createResource(ctx context.Context, resource runtime.Object, owner metav1.OwnerReference) error {
	switch obj := resource.(type) {
	case *corev1.Secret:
		secret := obj.DeepCopy()
		secret.OwnerReferences = append(secret.OwnerReferences, owner)
		if _, err := c.clientset.CoreV1().Secrets(secret.Namespace).Create(ctx, secret, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create secret %s/%s: %v", secret.Namespace, secret.Name, err)
		}
		logger.Info("Created secret", "name", secret.Name, "namespace", secret.Namespace)
	case *corev1.ConfigMap:
		configMap := obj.DeepCopy()
		configMap.OwnerReferences = append(configMap.OwnerReferences, owner)
		if _, err := c.clientset.CoreV1().ConfigMaps(configMap.Namespace).Create(ctx, configMap, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create configmap %s/%s: %v", configMap.Namespace, configMap.Name, err)
		}
		logger.Info("Created configmap", "name", configMap.Name, "namespace", configMap.Namespace)
	default:
		return fmt.Errorf("unsupported auxiliary resource type %T", resource)
	}
	return nil
}
