// Copyright 2026 Northern.tech AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package toolchain

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLibrariesFromSource(t *testing.T) {
	testCases := []struct {
		Name string

		Source    string
		Libraries []string
	}{
		{
			Name: "third-party includes",
			Source: `#include <WiFi.h>
#include <FastLED.h>
#include "PubSubClient.h"
#include <FastLED.h>
void loop() {}`,
			Libraries: []string{"FastLED", "PubSubClient"},
		},
		{
			Name: "core headers only",
			Source: `#include <WiFi.h>
#include <HTTPClient.h>
#include <Wire.h>`,
			Libraries: []string{},
		},
		{
			Name:      "esp-idf and path-qualified headers are skipped",
			Source:    "#include <esp_camera.h>\n#include <sys/time.h>\n",
			Libraries: []string{},
		},
		{
			Name:      "no includes",
			Source:    "void setup() {}\nvoid loop() {}",
			Libraries: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Libraries, LibrariesFromSource(tc.Source))
		})
	}
}

func TestEnsureLibraries(t *testing.T) {
	t.Setenv("PATH", "")

	toolsDir := t.TempDir()
	logFile := stubCompiler(t, toolsDir)
	p := New(toolsDir, "0.35.3")

	source := "#include <WiFi.h>\n#include <FastLED.h>\nvoid loop() {}"
	err := p.EnsureLibraries(context.Background(), source)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"lib update-index",
		"lib install FastLED",
	}, readInvocations(t, logFile))
}

func TestEnsureLibrariesInstallFailureIsBenign(t *testing.T) {
	t.Setenv("PATH", "")

	toolsDir := t.TempDir()
	logFile := stubCompiler(t, toolsDir, "lib install")
	p := New(toolsDir, "0.35.3")

	source := "#include <FastLED.h>\n#include <PubSubClient.h>\n"
	err := p.EnsureLibraries(context.Background(), source)
	assert.NoError(t, err)

	// a failed install does not stop the remaining libraries
	assert.Equal(t, []string{
		"lib update-index",
		"lib install FastLED",
		"lib install PubSubClient",
	}, readInvocations(t, logFile))
}

func TestEnsureLibrariesNoThirdParty(t *testing.T) {
	t.Setenv("PATH", "")

	toolsDir := t.TempDir()
	logFile := stubCompiler(t, toolsDir)
	p := New(toolsDir, "0.35.3")

	err := p.EnsureLibraries(context.Background(),
		"#include <WiFi.h>\nvoid loop() {}")
	assert.NoError(t, err)

	// the compiler is never invoked
	_, err = os.Stat(logFile)
	assert.True(t, os.IsNotExist(err))
}
