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

// HadoopBootstrap wraps the inner Hadoop steps produced by the Hadoop sub-orchestrator and
// applies them in order. It is only emitted when at least one inner step exists.
type HadoopBootstrap struct {
	Inner []Step
}

// Apply implements Step.
func (s *HadoopBootstrap) Apply(spec *DriverSpec) (*DriverSpec, error) {
	return ApplyAll(spec, s.Inner)
}
