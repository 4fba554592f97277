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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"
)

func TestSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		args *SamplingArgs
		want *SamplingArgs
	}{
		{
			name: "empty",
			args: &SamplingArgs{},
			want: &SamplingArgs{
				Sobol:              ptr.To(true),
				LHS:                ptr.To(false),
				NCont:              ptr.To(5),
				Epsilon:            ptr.To(1e-16),
				RemoveDuplicates:   ptr.To(true),
				BatchSize:          ptr.To(1000),
				DuplicateBatchSize: ptr.To(200),
				Iterations:         ptr.To(20),
				MaxRetries:         ptr.To(100),
				DistanceMetric:     ptr.To("cityblock"),
				NCombGenAllMax:     ptr.To(100e3),
				MaxEnumerate:       ptr.To(10e6),
			},
		},
		{
			name: "lhs disables sobol default",
			args: &SamplingArgs{LHS: ptr.To(true), NCont: ptr.To(3)},
			want: &SamplingArgs{
				Sobol:              ptr.To(false),
				LHS:                ptr.To(true),
				NCont:              ptr.To(3),
				Epsilon:            ptr.To(1e-16),
				RemoveDuplicates:   ptr.To(true),
				BatchSize:          ptr.To(1000),
				DuplicateBatchSize: ptr.To(200),
				Iterations:         ptr.To(20),
				MaxRetries:         ptr.To(100),
				DistanceMetric:     ptr.To("cityblock"),
				NCombGenAllMax:     ptr.To(100e3),
				MaxEnumerate:       ptr.To(10e6),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDefaults_SamplingArgs(tt.args)
			if diff := cmp.Diff(tt.want, tt.args); diff != "" {
				t.Errorf("unexpected defaults (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestValidateSamplingArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    *SamplingArgs
		wantErr string
	}{
		{
			name: "defaults",
			args: &SamplingArgs{},
		},
		{
			name:    "sobol and lhs",
			args:    &SamplingArgs{Sobol: ptr.To(true), LHS: ptr.To(true)},
			wantErr: "samplingArgs.lhs",
		},
		{
			name:    "negative epsilon",
			args:    &SamplingArgs{Epsilon: ptr.To(-1.)},
			wantErr: "samplingArgs.epsilon",
		},
		{
			name:    "unknown metric",
			args:    &SamplingArgs{DistanceMetric: ptr.To("cosine")},
			wantErr: "samplingArgs.distanceMetric",
		},
		{
			name:    "zero batch size",
			args:    &SamplingArgs{DuplicateBatchSize: ptr.To(0)},
			wantErr: "samplingArgs.duplicateBatchSize",
		},
		{
			name:    "zero retries",
			args:    &SamplingArgs{MaxRetries: ptr.To(0)},
			wantErr: "samplingArgs.maxRetries",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDefaults_SamplingArgs(tt.args)
			err := ValidateSamplingArgs(field.NewPath("samplingArgs"), tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSamplingArgs(t *testing.T) {
	args, err := LoadSamplingArgs([]byte(`
lhs: true
nCont: 3
epsilon: 0.001
distanceMetric: euclidean
`))
	require.NoError(t, err)
	assert.False(t, *args.Sobol)
	assert.True(t, *args.LHS)
	assert.Equal(t, 3, *args.NCont)
	assert.Equal(t, 1e-3, *args.Epsilon)
	assert.Equal(t, DistanceMetricEuclidean, *args.DistanceMetric)
	assert.Equal(t, 20, *args.Iterations)

	args, err = LoadSamplingArgs(nil)
	require.NoError(t, err)
	assert.True(t, *args.Sobol)

	_, err = LoadSamplingArgs([]byte("nContinuous: 3\n"))
	assert.Error(t, err)

	_, err = LoadSamplingArgs([]byte("iterations: -2\n"))
	assert.Error(t, err)
}
