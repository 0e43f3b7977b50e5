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

package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"

	api "github.com/mendersoftware/devicefirmware/api/http"
	"github.com/mendersoftware/devicefirmware/app"
	dconfig "github.com/mendersoftware/devicefirmware/config"
	"github.com/mendersoftware/devicefirmware/firmware"
	"github.com/mendersoftware/devicefirmware/store"
	"github.com/mendersoftware/devicefirmware/toolchain"
	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/mendersoftware/go-lib-micro/log"
)

// InitAndRun initializes the server and runs it
func InitAndRun(conf config.Reader, dataStore store.DataStore) error {
	ctx := context.Background()

	log.Setup(conf.GetBool(dconfig.SettingDebugLog))
	l := log.FromContext(ctx)

	artifacts := firmware.NewArtifactStore(
		conf.GetString(dconfig.SettingFirmwareDir))
	provisioner := toolchain.New(
		conf.GetString(dconfig.SettingToolsDir),
		conf.GetString(dconfig.SettingCompilerVersion))
	buildTimeout := time.Duration(
		conf.GetInt(dconfig.SettingBuildTimeout)) * time.Second
	builder := firmware.NewBuilder(artifacts, provisioner, buildTimeout)

	firmwareApp := app.New(dataStore, artifacts, builder, provisioner)

	// Provision the toolchain up front so the first build does not pay
	// the download cost. A failure here is logged and leaves the OTA
	// endpoints serving; builds re-attempt provisioning lazily.
	if err := firmwareApp.ProvisionToolchain(ctx); err != nil {
		l.Errorf("toolchain provisioning failed: %s", err)
	}

	var listen = conf.GetString(dconfig.SettingListen)
	router, err := api.NewRouter(firmwareApp)
	if err != nil {
		l.Fatal(err)
	}
	srv := &http.Server{
		Addr:    listen,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, unix.SIGINT, unix.SIGTERM)
	<-quit

	l.Info("Shutdown Server ...")

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxWithTimeout); err != nil {
		l.Fatal("Server Shutdown: ", err)
	}

	return nil
}
