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
	"os/exec"
	"regexp"
	"strings"

	"github.com/mendersoftware/go-lib-micro/log"
)

var includeRegex = regexp.MustCompile(`(?m)^\s*#include\s*[<"]([^>"]+)[>"]`)

// standardIncludes are headers shipped with the Arduino and ESP32 cores.
// They never resolve to an installable library.
var standardIncludes = map[string]bool{
	"Arduino.h":          true,
	"BluetoothSerial.h":  true,
	"DNSServer.h":        true,
	"EEPROM.h":           true,
	"ESPmDNS.h":          true,
	"FS.h":               true,
	"HTTPClient.h":       true,
	"HTTPUpdate.h":       true,
	"LittleFS.h":         true,
	"Preferences.h":      true,
	"SPI.h":              true,
	"SPIFFS.h":           true,
	"Ticker.h":           true,
	"Update.h":           true,
	"WebServer.h":        true,
	"WiFi.h":             true,
	"WiFiClient.h":       true,
	"WiFiClientSecure.h": true,
	"WiFiUdp.h":          true,
	"Wire.h":             true,
}

// LibrariesFromSource returns the third-party library names a sketch
// includes, in order of first appearance. Core headers, esp-idf headers
// and path-qualified includes are skipped.
func LibrariesFromSource(source string) []string {
	seen := map[string]bool{}
	libs := []string{}
	for _, match := range includeRegex.FindAllStringSubmatch(source, -1) {
		header := match[1]
		if standardIncludes[header] ||
			strings.HasPrefix(header, "esp_") ||
			strings.Contains(header, "/") {
			continue
		}
		name := strings.TrimSuffix(header, ".h")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		libs = append(libs, name)
	}
	return libs
}

// EnsureLibraries installs the third-party libraries the sketch includes
// so the following compile can resolve them. Library installs are
// idempotent at the tool level; install and index failures are logged and
// never fail the build.
func (p *Provisioner) EnsureLibraries(ctx context.Context, source string) error {
	libs := LibrariesFromSource(source)
	if len(libs) == 0 {
		return nil
	}
	compiler, err := p.EnsureCompiler(ctx)
	if err != nil {
		return err
	}
	l := log.FromContext(ctx)

	cmd := exec.CommandContext(ctx, compiler, "lib", "update-index")
	if out, err := cmd.CombinedOutput(); err != nil {
		l.Warnf("library index update reported an error: %s: %s",
			err, strings.TrimSpace(string(out)))
	}

	for _, lib := range libs {
		cmd := exec.CommandContext(ctx, compiler, "lib", "install", lib)
		if out, err := cmd.CombinedOutput(); err != nil {
			l.Warnf("library %s install reported an error (already installed?): %s: %s",
				lib, err, strings.TrimSpace(string(out)))
			continue
		}
		l.Infof("library %s is ready", lib)
	}
	return nil
}
