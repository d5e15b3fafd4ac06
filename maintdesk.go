package main

import (
	"github.com/maintdesk/maintdesk/cmd"
	"github.com/maintdesk/maintdesk/pkg/env"
	"github.com/maintdesk/maintdesk/pkg/log"
)

func main() {
	if err := env.Process(); err != nil {
		log.Fatal("environment failure", "error", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal("maintdesk failure", "error", err)
	}
}
