// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/counter"
	"github.com/nebula-market/nebulad/exchange"
	"github.com/nebula-market/nebulad/pay"
	"github.com/nebula-market/nebulad/rpc"
	"github.com/nebula-market/nebulad/storage"
	"github.com/nebula-market/nebulad/version"
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version.Version)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// the first director account
	genesis, err := account.AddressFromBase58(theConfiguration.Genesis)
	if nil != err {
		log.Criticalf("invalid genesis address: %q  error: %s", theConfiguration.Genesis, err)
		exitwithstatus.Message("%s: invalid genesis address: %q  error: %s", program, theConfiguration.Genesis, err)
	}

	// start the data storage
	log.Info("initialise storage")
	databaseName := filepath.Join(theConfiguration.Database.Directory, theConfiguration.Database.Name)
	store, err := storage.Initialise(databaseName, false)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("%s: storage initialise error: %s", program, err)
	}
	defer store.Close()

	// the exchange ledger
	log.Info("initialise exchange")
	treasury := &pay.LogTreasury{Log: logger.New("treasury")}
	ex, err := exchange.New(store, treasury, genesis)
	if nil != err {
		log.Criticalf("exchange initialise error: %s", err)
		exitwithstatus.Message("%s: exchange initialise error: %s", program, err)
	}

	if exchange.DefaultSellerFeeBps != theConfiguration.SellerFeeBps {
		err = ex.SetSellerFee(genesis, theConfiguration.SellerFeeBps)
		if nil != err {
			log.Criticalf("seller fee error: %s", err)
			exitwithstatus.Message("%s: seller fee error: %s", program, err)
		}
	}

	// load the RPC certificate
	certificatePEM, err := ioutil.ReadFile(theConfiguration.ClientRPC.Certificate)
	if nil != err {
		log.Criticalf("certificate read error: %s", err)
		exitwithstatus.Message("%s: certificate: %q read error: %s", program, theConfiguration.ClientRPC.Certificate, err)
	}
	keyPEM, err := ioutil.ReadFile(theConfiguration.ClientRPC.PrivateKey)
	if nil != err {
		log.Criticalf("private key read error: %s", err)
		exitwithstatus.Message("%s: private key: %q read error: %s", program, theConfiguration.ClientRPC.PrivateKey, err)
	}

	rpcLog := logger.New("rpc")
	tlsConfiguration, fingerprint, err := rpc.Certificate(rpcLog, "client_rpc", string(certificatePEM), string(keyPEM))
	if nil != err {
		log.Criticalf("certificate error: %s", err)
		exitwithstatus.Message("%s: certificate error: %s", program, err)
	}

	// start the RPC server
	rpcCount := counter.Counter(0)
	server := rpc.NewServer(rpcLog, version.Version, ex, &rpcCount)

	rpcListener, err := rpc.NewListener(&theConfiguration.ClientRPC, rpcLog, &rpcCount, server, tlsConfiguration, fingerprint)
	if nil != err {
		log.Criticalf("rpc listener create error: %s", err)
		exitwithstatus.Message("%s: rpc listener create error: %s", program, err)
	}

	err = rpcListener.Serve()
	if nil != err {
		log.Criticalf("rpc listener start error: %s", err)
		exitwithstatus.Message("%s: rpc listener start error: %s", program, err)
	}
	defer rpcListener.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nrunning: SHA3-256 fingerprint: %x\n", fingerprint)
		fmt.Printf("CTRL-C to shutdown\n")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down...\n")
	}
}
