// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	netrpc "net/rpc"
	"net/rpc/jsonrpc"

	"github.com/nebula-market/nebulad/rpc"
)

// Client - to hold RPC connection streams
type Client struct {
	conn    net.Conn
	client  *netrpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to a nebulad
func NewClient(connect string, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if nil != err {
		return nil, err
	}

	r := &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: verbose,
		handle:  handle,
	}
	return r, nil
}

// Close - shutdown the nebulad connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}

func (c *Client) printJson(title string, message interface{}) error {

	if !c.verbose {
		return nil
	}

	prefix := ""
	indent := "  "
	b, err := json.MarshalIndent(message, prefix, indent)
	if nil != err {
		return err
	}

	if "" == title {
		fmt.Fprintf(c.handle, "%s\n", b)
	} else {
		fmt.Fprintf(c.handle, "%s:\n%s\n", title, b)
	}
	return nil
}

// GetInfo - query node status
func (c *Client) GetInfo() (*rpc.InfoReply, error) {
	arguments := rpc.InfoArguments{}
	if err := c.printJson("Node.Info request", arguments); nil != err {
		return nil, err
	}

	reply := &rpc.InfoReply{}
	if err := c.client.Call("Node.Info", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetBalance - query one owner and class
func (c *Client) GetBalance(owner string, tokenId uint64) (*rpc.BalanceReply, error) {
	arguments := rpc.BalanceArguments{
		Owner:   owner,
		TokenId: tokenId,
	}
	if err := c.printJson("Owner.Balance request", arguments); nil != err {
		return nil, err
	}

	reply := &rpc.BalanceReply{}
	if err := c.client.Call("Owner.Balance", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetOwned - page the classes an owner holds
func (c *Client) GetOwned(owner string, start uint64, count int) (*rpc.TokensReply, error) {
	arguments := rpc.TokensArguments{
		Owner: owner,
		Start: start,
		Count: count,
	}
	if err := c.printJson("Owner.Tokens request", arguments); nil != err {
		return nil, err
	}

	reply := &rpc.TokensReply{}
	if err := c.client.Call("Owner.Tokens", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetRegistry - page the registered token classes
func (c *Client) GetRegistry(start uint64, count int) (*rpc.RegistryReply, error) {
	arguments := rpc.RegistryArguments{
		Start: start,
		Count: count,
	}
	if err := c.printJson("Token.Registry request", arguments); nil != err {
		return nil, err
	}

	reply := &rpc.RegistryReply{}
	if err := c.client.Call("Token.Registry", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetListings - page the fixed price listings
func (c *Client) GetListings(owner string, start uint64, count int) (*rpc.ListingsReply, error) {
	arguments := rpc.ListingsArguments{
		Owner: owner,
		Start: start,
		Count: count,
	}
	if err := c.printJson("Market.Listings request", arguments); nil != err {
		return nil, err
	}

	reply := &rpc.ListingsReply{}
	if err := c.client.Call("Market.Listings", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetOrders - page one side of an order book
func (c *Client) GetOrders(book string, tokenId uint64, owner string, start uint64, count int) (*rpc.OrdersReply, error) {
	arguments := rpc.OrdersArguments{
		Book:    book,
		TokenId: tokenId,
		Owner:   owner,
		ByOwner: "" != owner,
		Start:   start,
		Count:   count,
	}
	if err := c.printJson("Market.Orders request", arguments); nil != err {
		return nil, err
	}

	reply := &rpc.OrdersReply{}
	if err := c.client.Call("Market.Orders", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetAuction - query one live auction
func (c *Client) GetAuction(tokenId uint64) (*rpc.AuctionInfoReply, error) {
	arguments := rpc.AuctionInfoArguments{
		TokenId: tokenId,
	}
	if err := c.printJson("Auction.Info request", arguments); nil != err {
		return nil, err
	}

	reply := &rpc.AuctionInfoReply{}
	if err := c.client.Call("Auction.Info", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetRecord - fetch one sale record
func (c *Client) GetRecord(recordId uint64) (*rpc.RecordReply, error) {
	arguments := rpc.RecordArguments{
		RecordId: recordId,
	}
	if err := c.printJson("Record.Get request", arguments); nil != err {
		return nil, err
	}

	reply := &rpc.RecordReply{}
	if err := c.client.Call("Record.Get", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetRecordCount - total sale records
func (c *Client) GetRecordCount() (*rpc.CountReply, error) {
	arguments := struct{}{}

	reply := &rpc.CountReply{}
	if err := c.client.Call("Record.Count", &arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}
