// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/exchange"
	"github.com/nebula-market/nebulad/salerecord"
)

// Record - sale history query RPCs
type Record struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Exchange *exchange.Exchange
}

const (
	rateLimitRecord = 200
	rateBurstRecord = 100
)

// NewRecord - create the sale record query handler
func NewRecord(log *logger.L, ex *exchange.Exchange) *Record {
	return &Record{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitRecord, rateBurstRecord),
		Exchange: ex,
	}
}

// RecordArguments - select one record; ids start at one
type RecordArguments struct {
	RecordId uint64 `json:"record_id,string"`
}

// RecordReply - one historical sale entry
type RecordReply struct {
	RecordId      uint64          `json:"record_id,string"`
	TokenId       uint64          `json:"token_id"`
	Type          string          `json:"type"`
	Seller        account.Address `json:"seller"`
	Buyer         account.Address `json:"buyer"`
	StartingPrice uint64          `json:"starting_price,string"`
	FinalPrice    uint64          `json:"final_price,string"`
	StartTime     uint64          `json:"start_time,string"`
	EndTime       uint64          `json:"end_time,string"`
	Quantity      uint64          `json:"quantity"`
}

// Get - fetch one sale record
func (r *Record) Get(arguments *RecordArguments, reply *RecordReply) error {
	if err := rateLimit(r.Limiter); nil != err {
		return err
	}

	record, err := r.Exchange.Record(arguments.RecordId)
	if nil != err {
		return err
	}

	reply.RecordId = arguments.RecordId
	reply.TokenId = record.TokenId
	reply.Type = recordTypeName(record.Type)
	reply.Seller = record.Seller
	reply.Buyer = record.Buyer
	reply.StartingPrice = record.StartingPrice
	reply.FinalPrice = record.FinalPrice
	reply.StartTime = record.StartTime
	reply.EndTime = record.EndTime
	reply.Quantity = record.Quantity
	return nil
}

// CountReply - total number of sale records
type CountReply struct {
	Count uint64 `json:"count,string"`
}

// Count - total sale records written so far
func (r *Record) Count(arguments *struct{}, reply *CountReply) error {
	if err := rateLimit(r.Limiter); nil != err {
		return err
	}
	reply.Count = r.Exchange.RecordCount()
	return nil
}

func recordTypeName(recordType salerecord.RecordType) string {
	switch recordType {
	case salerecord.SaleSuccess:
		return "sale_success"
	case salerecord.AuctionUnsold:
		return "auction_unsold"
	case salerecord.AuctionCancelled:
		return "auction_cancelled"
	case salerecord.BuySuccess:
		return "buy_success"
	}
	return "unknown"
}
