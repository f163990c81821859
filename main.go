package main

import "dispatch-core/cmd"

func main() {
	cmd.Execute()
}
