// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Command gohdbctl dials a HANA instance, runs the authentication
// handshake and reports success, for smoke-testing connectivity and
// credentials without pulling in a full SQL driver.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/usdAG/gohdb"
	"github.com/usdAG/gohdb/internal/auth"
	"github.com/usdAG/gohdb/internal/trace"
	"github.com/usdAG/gohdb/internal/transport"
)

var cfgPath string
var traceEnabled bool

func main() {
	root := &cobra.Command{
		Use:   "gohdbctl",
		Short: "Command line client for the HDB connection handshake",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			trace.Trace.Set(strconv.FormatBool(traceEnabled))
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVar(&traceEnabled, "trace", false, "log wire-level packets and authentication steps to stderr")

	root.AddCommand(newPingCommand())
	root.AddCommand(newConnectCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Dial and run the protocol version handshake only",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			conn := gohdb.NewConnection(buildConnConfig(cfg, nil))
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := conn.Connect(ctx); err != nil {
				return err
			}
			defer conn.Close()
			if err := conn.Initialize(); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func newConnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Dial, initialize and authenticate",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			methods := []auth.Method{auth.NewScramSHA256(cfg.Password)}
			conn := gohdb.NewConnection(buildConnConfig(cfg, methods))
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := conn.ConnectAuthenticate(ctx, cfg.User); err != nil {
				return err
			}
			defer conn.Close()
			fmt.Println("authenticated")
			return nil
		},
	}
}

func buildConnConfig(cfg *cliConfig, methods []auth.Method) gohdb.Config {
	connCfg := gohdb.Config{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Methods:       methods,
		Route:         cfg.Route,
		RouterAddress: cfg.RouterAddress,
		DialTimeout:   10 * time.Second,
	}
	if cfg.Insecure {
		connCfg.TLS = &transport.TLSConfig{InsecureSkipVerify: true}
	}
	return connCfg
}
