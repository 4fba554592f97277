/*
Copyright 2024 The archopt Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	"k8s.io/utils/ptr"
)

var (
	DefaultSobol              = true
	DefaultLHS                = false
	DefaultNCont              = 5
	DefaultEpsilon            = 1e-16
	DefaultRemoveDuplicates   = true
	DefaultBatchSize          = 1000
	DefaultDuplicateBatchSize = 200
	DefaultIterations         = 20
	DefaultMaxRetries         = 100
	DefaultDistanceMetric     = DistanceMetricCityBlock
	DefaultNCombGenAllMax     = 100e3
	DefaultMaxEnumerate       = 10e6
)

// SetDefaults_SamplingArgs sets the default parameters for hierarchical sampling.
func SetDefaults_SamplingArgs(obj *SamplingArgs) {
	if obj.LHS == nil {
		obj.LHS = ptr.To(DefaultLHS)
	}
	if obj.Sobol == nil {
		// An explicit Latin hypercube request replaces the default fill
		obj.Sobol = ptr.To(DefaultSobol && !*obj.LHS)
	}
	if obj.NCont == nil {
		obj.NCont = ptr.To(DefaultNCont)
	}
	if obj.Epsilon == nil {
		obj.Epsilon = ptr.To(DefaultEpsilon)
	}
	if obj.RemoveDuplicates == nil {
		obj.RemoveDuplicates = ptr.To(DefaultRemoveDuplicates)
	}
	if obj.BatchSize == nil {
		obj.BatchSize = ptr.To(DefaultBatchSize)
	}
	if obj.DuplicateBatchSize == nil {
		obj.DuplicateBatchSize = ptr.To(DefaultDuplicateBatchSize)
	}
	if obj.Iterations == nil {
		obj.Iterations = ptr.To(DefaultIterations)
	}
	if obj.MaxRetries == nil {
		obj.MaxRetries = ptr.To(DefaultMaxRetries)
	}
	if obj.DistanceMetric == nil {
		obj.DistanceMetric = ptr.To(DefaultDistanceMetric)
	}
	if obj.NCombGenAllMax == nil {
		obj.NCombGenAllMax = ptr.To(DefaultNCombGenAllMax)
	}
	if obj.MaxEnumerate == nil {
		obj.MaxEnumerate = ptr.To(DefaultMaxEnumerate)
	}
}
