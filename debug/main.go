package main

import (
	"os"

	"github.com/Tiag8/bible-study-sub001/internal/server"
)

func main() {
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "4020"
	}

	err := server.Start(httpPort)
	if err != nil {
		return
	}
}
