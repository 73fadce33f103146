// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/counter"
	"github.com/nebula-market/nebulad/exchange"
)

// Node - server status RPCs
type Node struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Exchange *exchange.Exchange

	start    time.Time
	version  string
	rpcCount *counter.Counter
}

const (
	rateLimitNode = 100
	rateBurstNode = 50
)

// NewNode - create the node status handler
func NewNode(log *logger.L, ex *exchange.Exchange, start time.Time, version string, rpcCount *counter.Counter) *Node {
	return &Node{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitNode, rateBurstNode),
		Exchange: ex,
		start:    start,
		version:  version,
		rpcCount: rpcCount,
	}
}

// InfoArguments - empty
type InfoArguments struct{}

// InfoReply - summary of this node and its ledger
type InfoReply struct {
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	Connections  uint64 `json:"connections"`
	TotalClasses uint64 `json:"total_classes"`
	TotalListed  uint64 `json:"total_listed"`
	SaleRecords  uint64 `json:"sale_records,string"`
	SellerFeeBps uint64 `json:"seller_fee_bps"`
	Paused       bool   `json:"paused"`
}

// Info - return some information about this node
func (node *Node) Info(arguments *InfoArguments, reply *InfoReply) error {
	if err := rateLimit(node.Limiter); nil != err {
		return err
	}

	reply.Version = node.version
	reply.Uptime = time.Since(node.start).String()
	reply.Connections = node.rpcCount.Uint64()
	reply.TotalClasses = node.Exchange.TotalClasses()
	reply.TotalListed = node.Exchange.TotalListed()
	reply.SaleRecords = node.Exchange.RecordCount()
	reply.SellerFeeBps = node.Exchange.SellerFeeBps()
	reply.Paused = node.Exchange.IsPaused()
	return nil
}
