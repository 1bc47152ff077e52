package main

import (
	"shireesh.com/appconfig/cmd"
)

func main() {
	cmd.Execute()
}
