package main

import (
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/api"
)

const (
	docWorker = `Run a pipeline worker`
)

type optsWorker struct {
	optsGeneral
	optsDatabase
	optsQueue
	optsServices
}

func (c *optsWorker) Execute(args []string) error {
	// Workers pull pipeline runs off the queue and do the slow work:
	// question generation, render polling, ffmpeg, uploads. Requires
	// --queue-url; without a shared queue there's nothing to pull.
	log := c.logger()

	opts, err := buildOptions(&c.optsDatabase, &c.optsQueue, &c.optsServices, c.Debug)
	if err != nil {
		return err
	}

	svc, err := api.NewAPI(opts, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	return svc.Run()
}
