// Copyright 2026 The Schema Graph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config_test

import (
	"context"
	"strings"
	"testing"

	yaml "github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemagraph/engine/internal/config"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestLoad_OmittedFieldsKeepDefaults(t *testing.T) {
	in := strings.NewReader("hardCap: 500\n")
	p, err := config.Load(context.Background(), yaml.NewDecoder(in))
	require.NoError(t, err)

	assert.Equal(t, 500, p.HardCap)
	assert.Equal(t, config.Default().SampleSize, p.SampleSize)
	assert.Equal(t, config.Default().WordFrequencyTopK, p.WordFrequencyTopK)
}

func TestLoad_RejectsNonPositiveValues(t *testing.T) {
	in := strings.NewReader("sampleSize: -1\n")
	_, err := config.Load(context.Background(), yaml.NewDecoder(in))
	require.Error(t, err)
}
