// Copyright 2025 Northern.tech AS
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

	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/urfave/cli"

	"github.com/mendersoftware/devicecommands/app"
	dconfig "github.com/mendersoftware/devicecommands/config"
	"github.com/mendersoftware/devicecommands/server"
	"github.com/mendersoftware/devicecommands/store"
	"github.com/mendersoftware/devicecommands/store/mongo"
	"github.com/mendersoftware/devicecommands/store/sqlite"
	"github.com/mendersoftware/devicecommands/sweeper"
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
				Usage:  "Run the HTTP API server and the sweeper",
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
				Name:   "sweep",
				Usage:  "Run a single sweep pass and exit",
				Action: cmdSweep,
			},
		},
	}
	app.Usage = "Device Commands"
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
		config.Config.SetEnvPrefix("DEVICECOMMANDS")
		config.Config.AutomaticEnv()
		config.Config.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

		return nil
	}

	err := app.Run(args)
	if err != nil {
		log.Fatal(err)
	}
}

// setupDataStore opens the backend named by store_driver
func setupDataStore(ctx context.Context, conf config.Reader, automigrate bool) (store.DataStore, error) {
	switch driver := conf.GetString(dconfig.SettingStoreDriver); driver {
	case dconfig.StoreDriverMongo:
		return mongo.SetupDataStore(ctx, automigrate)
	case dconfig.StoreDriverSQLite:
		return sqlite.Open(ctx, conf.GetString(dconfig.SettingSQLitePath))
	default:
		return nil, cli.NewExitError(
			fmt.Sprintf("unknown %s %q", dconfig.SettingStoreDriver, driver),
			1)
	}
}

func cmdServer(args *cli.Context) error {
	dataStore, err := setupDataStore(context.Background(),
		config.Config, args.Bool("automigrate"))
	if err != nil {
		return err
	}
	defer dataStore.Close()
	return server.InitAndRun(config.Config, dataStore)
}

func cmdMigrate(args *cli.Context) error {
	dataStore, err := setupDataStore(context.Background(), config.Config, true)
	if err != nil {
		return err
	}
	return dataStore.Close()
}

func cmdSweep(args *cli.Context) error {
	ctx := context.Background()
	dataStore, err := setupDataStore(ctx, config.Config, false)
	if err != nil {
		return err
	}
	defer dataStore.Close()

	nc, err := server.ConnectNATS(config.Config)
	if err != nil {
		return err
	} else if nc != nil {
		defer nc.Close()
	}

	commandsApp := app.New(dataStore, nc, server.AppConfig(config.Config))
	return sweeper.New(commandsApp, server.SweepInterval(config.Config)).RunOnce(ctx)
}
