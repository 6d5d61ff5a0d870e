package main

import "yarn-audit-gate/internal/cli"

func main() {
	cli.Execute()
}
