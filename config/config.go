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

package config

import (
	"github.com/mendersoftware/go-lib-micro/config"
)

const (
	// SettingListen is the config key for the listen address
	SettingListen = "listen"
	// SettingListenDefault is the default value for the listen address
	SettingListenDefault = ":8080"

	// SettingMongo is the config key for the mongo URL
	SettingMongo = "mongo_url"
	// SettingMongoDefault is the default value for the mongo URL
	SettingMongoDefault = "mongodb://mender-mongo:27017"

	// SettingDbName is the config key for the mongo database name
	SettingDbName = "mongo_dbname"
	// SettingDbNameDefault is the default value for the mongo database name
	SettingDbNameDefault = "devicefirmware"

	// SettingDbSSL is the config key for the mongo SSL setting
	SettingDbSSL = "mongo_ssl"
	// SettingDbSSLDefault is the default value for the mongo SSL setting
	SettingDbSSLDefault = false

	// SettingDbSSLSkipVerify is the config key for the mongo SSL skip verify setting
	SettingDbSSLSkipVerify = "mongo_ssl_skipverify"
	// SettingDbSSLSkipVerifyDefault is the default value for the mongo SSL skip verify setting
	SettingDbSSLSkipVerifyDefault = false

	// SettingDbUsername is the config key for the mongo username
	SettingDbUsername = "mongo_username"

	// SettingDbPassword is the config key for the mongo password
	SettingDbPassword = "mongo_password"

	// SettingDebugLog is the config key for the turning on the debug log
	SettingDebugLog = "debug_log"
	// SettingDebugLogDefault is the default value for the debug log enabling
	SettingDebugLogDefault = false

	// SettingFirmwareDir is the config key for the root of the firmware
	// artifact store
	SettingFirmwareDir = "firmware_dir"
	// SettingFirmwareDirDefault is the default value for the firmware
	// artifact store root
	SettingFirmwareDirDefault = "firmware_versions"

	// SettingToolsDir is the config key for the compiler tools directory
	SettingToolsDir = "tools_dir"
	// SettingToolsDirDefault is the default value for the compiler tools
	// directory
	SettingToolsDirDefault = "tools/firmware_compiler"

	// SettingBuildTimeout is the config key for the firmware build timeout,
	// in seconds
	SettingBuildTimeout = "build_timeout"
	// SettingBuildTimeoutDefault is the default value for the firmware
	// build timeout
	SettingBuildTimeoutDefault = 120

	// SettingCompilerVersion is the config key for the pinned arduino-cli
	// version
	SettingCompilerVersion = "compiler_version"
	// SettingCompilerVersionDefault is the default value for the pinned
	// arduino-cli version
	SettingCompilerVersionDefault = "0.35.3"
)

var (
	// Defaults are the default configuration settings
	Defaults = []config.Default{
		{Key: SettingListen, Value: SettingListenDefault},
		{Key: SettingMongo, Value: SettingMongoDefault},
		{Key: SettingDbName, Value: SettingDbNameDefault},
		{Key: SettingDbSSL, Value: SettingDbSSLDefault},
		{Key: SettingDbSSLSkipVerify, Value: SettingDbSSLSkipVerifyDefault},
		{Key: SettingDebugLog, Value: SettingDebugLogDefault},
		{Key: SettingFirmwareDir, Value: SettingFirmwareDirDefault},
		{Key: SettingToolsDir, Value: SettingToolsDirDefault},
		{Key: SettingBuildTimeout, Value: SettingBuildTimeoutDefault},
		{Key: SettingCompilerVersion, Value: SettingCompilerVersionDefault},
	}
)
