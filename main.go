package main

import "ocrdesk/cmd"

func main() {
	cmd.Execute()
}
