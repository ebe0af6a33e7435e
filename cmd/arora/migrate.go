package main

import (
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/database"
)

const (
	docMigrate = `Apply database migrations`
)

type optsMigrate struct {
	optsGeneral
	optsDatabase
}

func (c *optsMigrate) Execute(args []string) error {
	return database.Migrate(&database.Options{URL: c.DatabaseURL})
}
