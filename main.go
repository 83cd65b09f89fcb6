package main

import "github.com/jjenkins/cfpradar/cmd"

func main() {
	cmd.Execute()
}
