package main

import "github.com/ValentinKolb/palcube/cmd"

func main() {
	cmd.Execute()
}
