package main

import (
	"github.com/agent-mongo-exporter/cmd/agent"
)

func main() {
	agent.Execute()
}
