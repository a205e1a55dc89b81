package main

import "cardburn/cmd"

func main() {
	cmd.Execute()
}
