package main

import "github.com/cloudhealth-ps/flexreports-backup/cmd"

func main() {
	cmd.Execute()
}
