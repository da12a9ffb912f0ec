package main

import "github.com/systemsleep/sleepctl/cmd"

func main() {
	cmd.Execute()
}
