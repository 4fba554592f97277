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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SamplingArgs configures hierarchical sampling, duplicate elimination and
// mixed-discrete mating. Unset fields are filled in by SetDefaults_SamplingArgs.
type SamplingArgs struct {
	metav1.TypeMeta `json:",inline"`

	// Sobol fills continuous variables with a low-discrepancy sequence
	Sobol *bool `json:"sobol,omitempty"`

	// LHS fills continuous variables with a Latin hypercube design and keeps
	// the best of Iterations samples. Mutually exclusive with Sobol.
	LHS *bool `json:"lhs,omitempty"`

	// NCont is the number of levels per continuous variable in exhaustive sampling
	NCont *int `json:"nCont,omitempty"`

	// Epsilon is the distance below which two design vectors are duplicates
	Epsilon *float64 `json:"epsilon,omitempty"`

	// RemoveDuplicates toggles duplicate elimination after sampling
	RemoveDuplicates *bool `json:"removeDuplicates,omitempty"`

	// BatchSize is the number of candidates repaired at a time when enumerating
	// by trial and repair
	BatchSize *int `json:"batchSize,omitempty"`

	// DuplicateBatchSize is the number of rows compared at a time during
	// duplicate elimination
	DuplicateBatchSize *int `json:"duplicateBatchSize,omitempty"`

	// Iterations is the number of candidate samples of the Latin hypercube sampler
	Iterations *int `json:"iterations,omitempty"`

	// MaxRetries bounds the regeneration of offspring with non-finite values
	MaxRetries *int `json:"maxRetries,omitempty"`

	// DistanceMetric is the duplicate comparison metric
	// +kubebuilder:validation:Enum=cityblock;euclidean
	DistanceMetric *string `json:"distanceMetric,omitempty"`

	// NCombGenAllMax is the number of discrete combinations up to which all
	// valid discrete design vectors are generated before sampling
	NCombGenAllMax *float64 `json:"nCombGenAllMax,omitempty"`

	// MaxEnumerate is the largest Cartesian product walked by trial and repair
	MaxEnumerate *float64 `json:"maxEnumerate,omitempty"`
}

const (
	DistanceMetricCityBlock = "cityblock"
	DistanceMetricEuclidean = "euclidean"
)
