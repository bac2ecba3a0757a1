package main

import "cleanquest/cmd/cq/root"

func main() {
	root.Execute()
}
