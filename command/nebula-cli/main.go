// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/nebula-market/nebulad/version"
)

type metadata struct {
	connect string
	verbose bool
	e       io.Writer
	w       io.Writer
}

func main() {

	app := cli.NewApp()
	app.Name = "nebula-cli"
	app.Usage = "query a nebulad node"
	app.Version = version.Version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "127.0.0.1:2130",
			Usage: " nebulad host/IP and port, `HOST:PORT`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "display node status",
			Action: runInfo,
		},
		{
			Name:  "balance",
			Usage: "balance of one owner and token class",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*owner address `ADDRESS`",
				},
				cli.Uint64Flag{
					Name:  "token, t",
					Usage: "*token class `ID`",
				},
			},
			Action: runBalance,
		},
		{
			Name:  "owned",
			Usage: "list the token classes an owner holds",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*owner address `ADDRESS`",
				},
				cli.Uint64Flag{
					Name:  "start, s",
					Usage: " start point `N`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runOwned,
		},
		{
			Name:  "registry",
			Usage: "list the registered token classes",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "start, s",
					Usage: " start point `N`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runRegistry,
		},
		{
			Name:  "listings",
			Usage: "list the fixed price listings",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " restrict to one owner `ADDRESS`",
				},
				cli.Uint64Flag{
					Name:  "start, s",
					Usage: " start point `N`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runListings,
		},
		{
			Name:  "orders",
			Usage: "list one side of an order book",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "book, b",
					Value: "sell",
					Usage: "+order book [sell|buy]",
				},
				cli.Uint64Flag{
					Name:  "token, t",
					Usage: "+token class `ID`",
				},
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "+owner address `ADDRESS`",
				},
				cli.Uint64Flag{
					Name:  "start, s",
					Usage: " start point `N`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runOrders,
		},
		{
			Name:  "auction",
			Usage: "display one live auction",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "token, t",
					Usage: "*token class `ID`",
				},
			},
			Action: runAuction,
		},
		{
			Name:  "record",
			Usage: "display one sale record, or the total count",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "id, i",
					Usage: " record `ID`, omit for the count",
				},
			},
			Action: runRecord,
		},
	}

	app.Before = func(c *cli.Context) error {
		app.Metadata = map[string]interface{}{
			"config": &metadata{
				connect: c.GlobalString("connect"),
				verbose: c.GlobalBool("verbose"),
				e:       app.ErrWriter,
				w:       app.Writer,
			},
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		os.Exit(1)
	}
}
