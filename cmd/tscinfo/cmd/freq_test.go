/*
Copyright (c) Facebook, Inc. and its affiliates.

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

package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facebook/tsc"
)

func TestFreqRun(t *testing.T) {
	if !tsc.Supported() {
		require.Error(t, freqRun(50*time.Millisecond))
		return
	}
	// exercises the whole probe-and-render path, table output included
	require.NoError(t, freqRun(50*time.Millisecond))
}
