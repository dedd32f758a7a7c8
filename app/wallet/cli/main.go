package main

import "github.com/subaquatic-pierre/nebula/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
