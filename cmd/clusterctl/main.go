package main

import (
	"os"

	"github.com/birbparty/clusterapi/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
