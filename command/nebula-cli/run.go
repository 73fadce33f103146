// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli"
)

func clientFromContext(c *cli.Context) (*Client, *metadata, error) {
	m := c.App.Metadata["config"].(*metadata)
	client, err := NewClient(m.connect, m.verbose, m.e)
	if nil != err {
		return nil, nil, err
	}
	return client, m, nil
}

func printReply(m *metadata, reply interface{}) error {
	b, err := json.MarshalIndent(reply, "", "  ")
	if nil != err {
		return err
	}
	fmt.Fprintf(m.w, "%s\n", b)
	return nil
}

func runInfo(c *cli.Context) error {
	client, m, err := clientFromContext(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetInfo()
	if nil != err {
		return err
	}
	return printReply(m, reply)
}

func runBalance(c *cli.Context) error {
	owner := c.String("owner")
	if "" == owner {
		return fmt.Errorf("missing owner address")
	}

	client, m, err := clientFromContext(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetBalance(owner, c.Uint64("token"))
	if nil != err {
		return err
	}
	return printReply(m, reply)
}

func runOwned(c *cli.Context) error {
	owner := c.String("owner")
	if "" == owner {
		return fmt.Errorf("missing owner address")
	}

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	client, m, err := clientFromContext(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetOwned(owner, c.Uint64("start"), count)
	if nil != err {
		return err
	}
	return printReply(m, reply)
}

func runRegistry(c *cli.Context) error {
	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	client, m, err := clientFromContext(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetRegistry(c.Uint64("start"), count)
	if nil != err {
		return err
	}
	return printReply(m, reply)
}

func runListings(c *cli.Context) error {
	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	client, m, err := clientFromContext(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetListings(c.String("owner"), c.Uint64("start"), count)
	if nil != err {
		return err
	}
	return printReply(m, reply)
}

func runOrders(c *cli.Context) error {
	book := c.String("book")
	if "sell" != book && "buy" != book {
		return fmt.Errorf("invalid book: %q", book)
	}

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	client, m, err := clientFromContext(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetOrders(book, c.Uint64("token"), c.String("owner"), c.Uint64("start"), count)
	if nil != err {
		return err
	}
	return printReply(m, reply)
}

func runAuction(c *cli.Context) error {
	client, m, err := clientFromContext(c)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetAuction(c.Uint64("token"))
	if nil != err {
		return err
	}
	return printReply(m, reply)
}

func runRecord(c *cli.Context) error {
	client, m, err := clientFromContext(c)
	if nil != err {
		return err
	}
	defer client.Close()

	recordId := c.Uint64("id")
	if 0 == recordId {
		reply, err := client.GetRecordCount()
		if nil != err {
			return err
		}
		return printReply(m, reply)
	}

	reply, err := client.GetRecord(recordId)
	if nil != err {
		return err
	}
	return printReply(m, reply)
}
