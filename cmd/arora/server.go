package main

import (
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/api"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/api/http/server"
)

const (
	docServer = `Run the interview API server`
)

type optsServer struct {
	optsGeneral
	optsDatabase
	optsQueue
	optsServices

	Addr string `long:"addr" env:"ADDR" description:"Address to bind to" default:"localhost:8100"`

	StaticDir string `long:"static-dir" env:"STATIC_DIR" default:"" description:"Serve static files from this directory"`
}

func (c *optsServer) Execute(args []string) error {
	// This serves the interview API over HTTP. With no --queue-url the
	// pipelines run in-process too, which is the single-box deployment;
	// point --queue-url at redis and run `worker` processes to split the
	// slow ffmpeg / render work out.
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

	if c.QueueURL == "" {
		// in-process pipelines; Run only blocks for queue backends, the
		// local queue processes work as it's enqueued
		go svc.Run()
	}

	s := server.NewServer(c.Addr, c.StaticDir, c.Debug, log)
	return s.ServeForever(svc)
}
