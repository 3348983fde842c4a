package main

import "nav-overlay/cmd"

func main() {
	cmd.Execute()
}
