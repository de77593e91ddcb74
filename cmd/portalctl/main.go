package main

import (
	"os"

	"github.com/yigit/schoolportal/internal/cli"
)

func main() {
	cli.Run(os.Args)
}
