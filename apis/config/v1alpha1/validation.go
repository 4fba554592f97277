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
	"math"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"
)

var supportedDistanceMetrics = []string{DistanceMetricCityBlock, DistanceMetricEuclidean}

// ValidateSamplingArgs validates defaulted sampling args.
func ValidateSamplingArgs(path *field.Path, args *SamplingArgs) error {
	var allErrs field.ErrorList

	if ptr.Deref(args.Sobol, false) && ptr.Deref(args.LHS, false) {
		allErrs = append(allErrs, field.Invalid(path.Child("lhs"), *args.LHS, "cannot be combined with sobol"))
	}
	allErrs = append(allErrs, validatePositive(path.Child("nCont"), args.NCont)...)
	allErrs = append(allErrs, validatePositive(path.Child("batchSize"), args.BatchSize)...)
	allErrs = append(allErrs, validatePositive(path.Child("duplicateBatchSize"), args.DuplicateBatchSize)...)
	allErrs = append(allErrs, validatePositive(path.Child("iterations"), args.Iterations)...)
	allErrs = append(allErrs, validatePositive(path.Child("maxRetries"), args.MaxRetries)...)

	if args.Epsilon != nil && (*args.Epsilon < 0 || math.IsNaN(*args.Epsilon)) {
		allErrs = append(allErrs, field.Invalid(path.Child("epsilon"), *args.Epsilon, "must be non-negative"))
	}
	if args.DistanceMetric != nil {
		valid := false
		for _, m := range supportedDistanceMetrics {
			if *args.DistanceMetric == m {
				valid = true
			}
		}
		if !valid {
			allErrs = append(allErrs, field.NotSupported(path.Child("distanceMetric"), *args.DistanceMetric, supportedDistanceMetrics))
		}
	}
	if args.NCombGenAllMax != nil && *args.NCombGenAllMax <= 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("nCombGenAllMax"), *args.NCombGenAllMax, "must be positive"))
	}
	if args.MaxEnumerate != nil && *args.MaxEnumerate <= 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("maxEnumerate"), *args.MaxEnumerate, "must be positive"))
	}

	return allErrs.ToAggregate()
}

func validatePositive(path *field.Path, v *int) field.ErrorList {
	if v != nil && *v <= 0 {
		return field.ErrorList{field.Invalid(path, *v, "must be positive")}
	}
	return nil
}

// LoadSamplingArgs decodes YAML or JSON sampling args, then defaults and
// validates them. Unknown fields are rejected.
func LoadSamplingArgs(data []byte) (*SamplingArgs, error) {
	args := &SamplingArgs{}
	if len(data) > 0 {
		if err := yaml.UnmarshalStrict(data, args); err != nil {
			return nil, err
		}
	}
	SetDefaults_SamplingArgs(args)
	if err := ValidateSamplingArgs(field.NewPath("samplingArgs"), args); err != nil {
		return nil, err
	}
	return args, nil
}
