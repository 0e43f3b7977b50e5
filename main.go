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

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/urfave/cli"

	"github.com/mendersoftware/devicefirmware/app"
	dconfig "github.com/mendersoftware/devicefirmware/config"
	"github.com/mendersoftware/devicefirmware/firmware"
	"github.com/mendersoftware/devicefirmware/server"
	store "github.com/mendersoftware/devicefirmware/store/mongo"
	"github.com/mendersoftware/devicefirmware/toolchain"
)

var Version string = "unknown"

func main() {
	doMain(os.Args)
}

func doMain(args []string) {
	var configPath string

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name: "config",
				Usage: "Configuration `FILE`. " +
					"Supports JSON, TOML, YAML and HCL " +
					"formatted configs.",
				Value:       "config.yaml",
				Destination: &configPath,
			},
		},
		Commands: []cli.Command{
			{
				Name:   "server",
				Usage:  "Run the HTTP API server",
				Action: cmdServer,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "automigrate",
						Usage: "Run database migrations before starting.",
					},
				},
			},
			{
				Name:   "migrate",
				Usage:  "Run the migrations",
				Action: cmdMigrate,
			},
			{
				Name: "provision",
				Usage: "Install the firmware compiler and the board " +
					"support packages for the registered fleet.",
				Action: cmdProvision,
			},
		},
	}
	app.Usage = "Device Firmware"
	app.Version = Version
	app.Action = cmdServer

	app.Before = func(args *cli.Context) error {
		err := config.FromConfigFile(configPath, dconfig.Defaults)
		if err != nil {
			return cli.NewExitError(
				fmt.Sprintf("error loading configuration: %s", err),
				1)
		}

		// Enable setting config values by environment variables
		config.Config.SetEnvPrefix("DEVICEFIRMWARE")
		config.Config.AutomaticEnv()
		config.Config.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

		return nil
	}

	err := app.Run(args)
	if err != nil {
		log.Fatal(err)
	}
}

func cmdServer(args *cli.Context) error {
	dataStore, err := store.SetupDataStore(args.Bool("automigrate"))
	if err != nil {
		return err
	}
	defer dataStore.Close()
	return server.InitAndRun(config.Config, dataStore)
}

func cmdMigrate(args *cli.Context) error {
	_, err := store.SetupDataStore(true)
	if err != nil {
		return err
	}
	return nil
}

func cmdProvision(args *cli.Context) error {
	dataStore, err := store.SetupDataStore(false)
	if err != nil {
		return err
	}
	defer dataStore.Close()

	artifacts := firmware.NewArtifactStore(
		config.Config.GetString(dconfig.SettingFirmwareDir))
	provisioner := toolchain.New(
		config.Config.GetString(dconfig.SettingToolsDir),
		config.Config.GetString(dconfig.SettingCompilerVersion))
	buildTimeout := time.Duration(
		config.Config.GetInt(dconfig.SettingBuildTimeout)) * time.Second
	builder := firmware.NewBuilder(artifacts, provisioner, buildTimeout)

	firmwareApp := app.New(dataStore, artifacts, builder, provisioner)
	return firmwareApp.ProvisionToolchain(context.Background())
}
