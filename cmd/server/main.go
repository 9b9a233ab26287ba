package main

import "github.com/dkoval/pointing-poker/internal/server"

func main() {
	server.NewServer().Run()
}
